package memory

import (
	"context"
	"sync"

	"github.com/skillbridge/session-gateway/internal/core/ports"
)

// Storage is an in-process key-value store shared by all client scopes.
type Storage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewStorage() *Storage {
	return &Storage{data: make(map[string][]byte)}
}

// Scope returns a view of s whose keys are prefixed with sessionID.
func (s *Storage) Scope(sessionID string) ports.SessionStorage {
	return &scopedStorage{base: s, prefix: sessionID + ":"}
}

func (s *Storage) get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

func (s *Storage) set(key string, value []byte) {
	s.mu.Lock()
	s.data[key] = append([]byte(nil), value...)
	s.mu.Unlock()
}

func (s *Storage) delete(key string) {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
}

type scopedStorage struct {
	base   *Storage
	prefix string
}

func (s *scopedStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.base.get(s.prefix + key)
	return v, ok, nil
}

func (s *scopedStorage) Set(_ context.Context, key string, value []byte) error {
	s.base.set(s.prefix+key, value)
	return nil
}

func (s *scopedStorage) Delete(_ context.Context, key string) error {
	s.base.delete(s.prefix + key)
	return nil
}
