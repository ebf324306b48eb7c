package middleware

import (
	"context"

	"github.com/skillbridge/session-gateway/internal/core/domain"
	"github.com/skillbridge/session-gateway/internal/core/ports"
)

type stubSession struct {
	snap       domain.Session
	remembered string
}

func (s *stubSession) Snapshot() domain.Session { return s.snap }

func (s *stubSession) Login(context.Context, string, string) (domain.Identity, error) {
	return domain.Identity{}, nil
}

func (s *stubSession) Signup(context.Context, string, string, string, domain.Role) (domain.Identity, error) {
	return domain.Identity{}, nil
}

func (s *stubSession) Logout(context.Context) error { return nil }

func (s *stubSession) ForgotPassword(context.Context, string) error { return nil }

func (s *stubSession) UpdateProfile(context.Context, domain.ProfilePatch) (domain.Identity, error) {
	return domain.Identity{}, nil
}

func (s *stubSession) RememberReturnTo(location string) { s.remembered = location }

func (s *stubSession) TakeReturnTo() (string, bool) {
	loc := s.remembered
	s.remembered = ""
	return loc, loc != ""
}

type stubRegistry struct {
	sessions map[string]*stubSession
	asked    []string
}

func newStubRegistry() *stubRegistry {
	return &stubRegistry{sessions: make(map[string]*stubSession)}
}

func (r *stubRegistry) Get(_ context.Context, sid string) ports.SessionService {
	r.asked = append(r.asked, sid)
	s, ok := r.sessions[sid]
	if !ok {
		s = &stubSession{snap: domain.Session{State: domain.StateAnonymous}}
		r.sessions[sid] = s
	}
	return s
}

func authenticated(role domain.Role) *stubSession {
	return &stubSession{snap: domain.Session{
		State:    domain.StateAuthenticated,
		Identity: &domain.Identity{ID: "1", Role: role, Name: "Test", Email: "t@example.com"},
	}}
}
