package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skillbridge/session-gateway/internal/api/middleware"
	"github.com/skillbridge/session-gateway/internal/core/domain"
)

type stubSessionService struct {
	snap       domain.Session
	returnTo   string
	loginFn    func(ctx context.Context, email, password string) (domain.Identity, error)
	signupFn   func(ctx context.Context, name, email, password string, role domain.Role) (domain.Identity, error)
	logoutFn   func(ctx context.Context) error
	forgotFn   func(ctx context.Context, email string) error
	profileFn  func(ctx context.Context, patch domain.ProfilePatch) (domain.Identity, error)
	signupSeen bool
}

func (s *stubSessionService) Snapshot() domain.Session { return s.snap }

func (s *stubSessionService) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubSessionService) Signup(ctx context.Context, name, email, password string, role domain.Role) (domain.Identity, error) {
	s.signupSeen = true
	return s.signupFn(ctx, name, email, password, role)
}

func (s *stubSessionService) Logout(ctx context.Context) error { return s.logoutFn(ctx) }

func (s *stubSessionService) ForgotPassword(ctx context.Context, email string) error {
	return s.forgotFn(ctx, email)
}

func (s *stubSessionService) UpdateProfile(ctx context.Context, patch domain.ProfilePatch) (domain.Identity, error) {
	return s.profileFn(ctx, patch)
}

func (s *stubSessionService) RememberReturnTo(location string) { s.returnTo = location }

func (s *stubSessionService) TakeReturnTo() (string, bool) {
	loc := s.returnTo
	s.returnTo = ""
	return loc, loc != ""
}

var student = domain.Identity{
	ID:       "1",
	Role:     domain.RoleStudent,
	Name:     "John Student",
	Email:    "student@example.com",
	JoinedAt: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
}

func signedIn(id domain.Identity) *stubSessionService {
	return &stubSessionService{snap: domain.Session{State: domain.StateAuthenticated, Identity: &id}}
}

func anonymous() *stubSessionService {
	return &stubSessionService{snap: domain.Session{State: domain.StateAnonymous}}
}

// newContext builds an echo context with the validator installed and the
// stub attached the way the Session middleware attaches a store.
func newContext(t *testing.T, method, target, body string, s *stubSessionService) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if s != nil {
		middleware.SetSession(c, s)
	}
	return c, rec
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}
