package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillbridge/session-gateway/internal/core/ports"
)

type registryEntry struct {
	store    *SessionStore
	lastSeen time.Time
}

// SessionRegistry owns one SessionStore per client session id.
type SessionRegistry struct {
	directory ports.Directory
	scoper    ports.StorageScoper
	notifier  ports.ResetNotifier
	latency   time.Duration
	log       zerolog.Logger
	now       func() time.Time

	mu      sync.Mutex
	entries map[string]*registryEntry
}

// NewSessionRegistry returns an empty registry. Every store it creates shares
// the directory and notifier and gets storage scoped to its session id.
func NewSessionRegistry(
	directory ports.Directory,
	scoper ports.StorageScoper,
	notifier ports.ResetNotifier,
	latency time.Duration,
	log zerolog.Logger,
) *SessionRegistry {
	return &SessionRegistry{
		directory: directory,
		scoper:    scoper,
		notifier:  notifier,
		latency:   latency,
		log:       log,
		now:       time.Now,
		entries:   make(map[string]*registryEntry),
	}
}

// Get returns the initialized store for sessionID, creating it on first use.
func (r *SessionRegistry) Get(ctx context.Context, sessionID string) ports.SessionService {
	return r.store(ctx, sessionID)
}

func (r *SessionRegistry) store(ctx context.Context, sessionID string) *SessionStore {
	r.mu.Lock()
	e, ok := r.entries[sessionID]
	if !ok {
		log := r.log.With().Str("session_id", sessionID).Logger()
		e = &registryEntry{
			store: NewSessionStore(r.directory, r.scoper.Scope(sessionID), r.notifier, r.latency, log),
		}
		r.entries[sessionID] = e
	}
	e.lastSeen = r.now()
	r.mu.Unlock()

	e.store.Init(ctx)
	return e.store
}

// Sweep drops stores idle for longer than idle and returns how many went.
// Stores with an operation in flight are kept. Persisted records are kept
// too, so a returning client is restored by Init.
func (r *SessionRegistry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) && !e.store.busy() {
			delete(r.entries, id)
			removed++
		}
	}
	if removed > 0 {
		r.log.Debug().Int("removed", removed).Int("active", len(r.entries)).Msg("swept idle sessions")
	}
	return removed
}

// Len returns the number of live stores.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// RunSweeper calls Sweep every interval until ctx is cancelled. report, if
// set, receives the number of live stores after each pass.
func (r *SessionRegistry) RunSweeper(ctx context.Context, interval, idle time.Duration, report func(active int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(idle)
			if report != nil {
				report(r.Len())
			}
		}
	}
}
