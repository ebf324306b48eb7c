package service

import (
	"slices"

	"github.com/skillbridge/session-gateway/internal/core/domain"
)

// DecisionKind is the outcome of a guard check.
type DecisionKind string

const (
	DecisionLoading  DecisionKind = "loading"
	DecisionRender   DecisionKind = "render"
	DecisionRedirect DecisionKind = "redirect"
)

// Decision tells the transport what to do with a guarded request.
type Decision struct {
	Kind DecisionKind
	// Target is the redirect destination.
	Target string
	// From is the location that triggered a redirect to login.
	From string
}

// Authorize decides whether the session may see a route subtree restricted to
// allowed. An empty allowed set admits any authenticated identity. A role that
// is not allowed is sent to its own landing page rather than refused.
func Authorize(s domain.Session, allowed []domain.Role, location string) Decision {
	if s.Loading || s.State == domain.StateInitializing {
		return Decision{Kind: DecisionLoading}
	}
	if !s.Authenticated() {
		return Decision{Kind: DecisionRedirect, Target: domain.PathLogin, From: location}
	}
	if len(allowed) == 0 || slices.Contains(allowed, s.Identity.Role) {
		return Decision{Kind: DecisionRender}
	}
	return Decision{Kind: DecisionRedirect, Target: domain.LandingFor(s.Identity.Role)}
}

// DashboardTarget resolves the generic dashboard entry point for a session.
func DashboardTarget(s domain.Session) string {
	if !s.Authenticated() {
		return domain.PathLogin
	}
	return domain.LandingFor(s.Identity.Role)
}
