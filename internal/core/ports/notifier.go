package ports

import "context"

// ResetNotifier dispatches a password reset notification for an email address.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, email string) error
}
