package ports

import "context"

// SessionStorage is the durable client-side key-value store a session is
// persisted to. Implementations are already scoped to one client.
type SessionStorage interface {
	// Get returns found=false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for a missing key.
	Delete(ctx context.Context, key string) error
}

// StorageScoper hands out storage namespaced to a client session id.
type StorageScoper interface {
	Scope(sessionID string) SessionStorage
}
