package domain

import "errors"

// SessionState is the lifecycle state of a client session.
type SessionState string

const (
	StateInitializing  SessionState = "initializing"
	StateAnonymous     SessionState = "anonymous"
	StateAuthenticated SessionState = "authenticated"
)

// Session is a point-in-time view of a session store.
type Session struct {
	State    SessionState
	Loading  bool
	Identity *Identity
}

// Authenticated reports whether the snapshot carries an identity.
func (s Session) Authenticated() bool {
	return s.State == StateAuthenticated && s.Identity != nil
}

// ErrInvalidSessionToken is returned for tokens that are malformed, expired or
// signed with the wrong key.
var ErrInvalidSessionToken = errors.New("invalid session token")
