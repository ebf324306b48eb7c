package ports

import (
	"context"

	"github.com/skillbridge/session-gateway/internal/core/domain"
)

// Directory is the credential authority: the set of known accounts.
type Directory interface {
	// FindByEmail returns domain.ErrAccountNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Create registers a new account. It returns domain.ErrDuplicateEmail when
	// the email is already taken and leaves the directory unchanged.
	Create(ctx context.Context, account *domain.Account) error
	// Delete removes the account registered under email. Deleting a missing
	// account is not an error.
	Delete(ctx context.Context, email string) error
}
