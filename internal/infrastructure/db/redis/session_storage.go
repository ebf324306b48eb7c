package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skillbridge/session-gateway/internal/core/ports"
)

const keyPrefix = "session"

// SessionStorage persists client session records in Redis.
// Key format: session:<session_id>:<key>
//
// A non-zero TTL is refreshed on every write, so abandoned sessions expire.
type SessionStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStorage wraps client. ttl <= 0 keeps records forever.
func NewSessionStorage(client *redis.Client, ttl time.Duration) *SessionStorage {
	return &SessionStorage{client: client, ttl: ttl}
}

// Scope returns the storage view for one client session.
func (s *SessionStorage) Scope(sessionID string) ports.SessionStorage {
	return &scopedStorage{parent: s, sessionID: sessionID}
}

func (s *SessionStorage) key(sessionID, key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, sessionID, key)
}

type scopedStorage struct {
	parent    *SessionStorage
	sessionID string
}

func (s *scopedStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.parent.client.Get(ctx, s.parent.key(s.sessionID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("session storage get: %w", err)
	}
	return v, true, nil
}

func (s *scopedStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := s.parent.client.Set(ctx, s.parent.key(s.sessionID, key), value, s.parent.ttl).Err(); err != nil {
		return fmt.Errorf("session storage set: %w", err)
	}
	return nil
}

func (s *scopedStorage) Delete(ctx context.Context, key string) error {
	if err := s.parent.client.Del(ctx, s.parent.key(s.sessionID, key)).Err(); err != nil {
		return fmt.Errorf("session storage delete: %w", err)
	}
	return nil
}
