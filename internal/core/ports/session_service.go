package ports

import (
	"context"

	"github.com/skillbridge/session-gateway/internal/core/domain"
)

// SessionService is the per-client session authority consumed by the HTTP layer.
type SessionService interface {
	Snapshot() domain.Session
	Login(ctx context.Context, email, password string) (domain.Identity, error)
	Signup(ctx context.Context, name, email, password string, role domain.Role) (domain.Identity, error)
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) error
	UpdateProfile(ctx context.Context, patch domain.ProfilePatch) (domain.Identity, error)

	// RememberReturnTo records the location that sent the client to login.
	RememberReturnTo(location string)
	// TakeReturnTo returns the remembered location and forgets it.
	TakeReturnTo() (string, bool)
}

// SessionRegistry resolves a client session id to its session.
type SessionRegistry interface {
	Get(ctx context.Context, sessionID string) SessionService
}
