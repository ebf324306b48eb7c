package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/skillbridge/session-gateway/internal/core/domain"
)

func TestAuthHandler_Signup_Success(t *testing.T) {
	stub := anonymous()
	stub.signupFn = func(_ context.Context, name, email, password string, role domain.Role) (domain.Identity, error) {
		if name != "Ada" || email != "ada@example.com" || password != "longenough" || role != domain.RoleEmployer {
			t.Fatalf("unexpected args: %s %s %s %s", name, email, password, role)
		}
		return domain.Identity{ID: "new", Name: name, Email: email, Role: role}, nil
	}
	body := `{"name":"Ada","email":"ada@example.com","password":"longenough","confirm_password":"longenough","role":"employer"}`
	c, rec := newContext(t, http.MethodPost, "/auth/signup", body, stub)

	if err := NewAuthHandler().Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Redirect != "/dashboard" || resp.User.ID != "new" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Signup_ValidationRunsBeforeStore(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"short password", `{"name":"A","email":"a@example.com","password":"short","confirm_password":"short","role":"student"}`, "password must be at least 8"},
		{"mismatch", `{"name":"A","email":"a@example.com","password":"longenough","confirm_password":"different1","role":"student"}`, "passwords do not match"},
		{"admin role", `{"name":"A","email":"a@example.com","password":"longenough","confirm_password":"longenough","role":"admin"}`, "role must be one of"},
		{"bad email", `{"name":"A","email":"nope","password":"longenough","confirm_password":"longenough","role":"student"}`, "email must be a valid email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := anonymous()
			c, _ := newContext(t, http.MethodPost, "/auth/signup", tt.body, stub)

			err := NewAuthHandler().Signup(c)
			if httpCode(t, err) != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("message %q does not mention %q", err.Error(), tt.want)
			}
			if stub.signupSeen {
				t.Fatalf("store must not be called when validation fails")
			}
		})
	}
}

func TestAuthHandler_Signup_DuplicateEmail(t *testing.T) {
	stub := anonymous()
	stub.signupFn = func(context.Context, string, string, string, domain.Role) (domain.Identity, error) {
		return domain.Identity{}, domain.ErrDuplicateEmail
	}
	body := `{"name":"A","email":"student@example.com","password":"longenough","confirm_password":"longenough","role":"student"}`
	c, _ := newContext(t, http.MethodPost, "/auth/signup", body, stub)

	if err := NewAuthHandler().Signup(c); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthHandler_Login_RedirectsToRememberedLocation(t *testing.T) {
	stub := anonymous()
	stub.returnTo = "/employer-dashboard"
	stub.loginFn = func(_ context.Context, email, password string) (domain.Identity, error) {
		return domain.Identity{ID: "2", Role: domain.RoleEmployer, Email: email}, nil
	}
	c, rec := newContext(t, http.MethodPost, "/auth/login", `{"email":"employer@example.com","password":"password123"}`, stub)

	if err := NewAuthHandler().Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp authResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if rec.Code != http.StatusOK || resp.Redirect != "/employer-dashboard" {
		t.Fatalf("unexpected response: %d %+v", rec.Code, resp)
	}
	if _, ok := stub.TakeReturnTo(); ok {
		t.Fatalf("return location must be consumed")
	}
}

func TestAuthHandler_Login_RedirectFallbacks(t *testing.T) {
	tests := []struct {
		name string
		from string
		want string
	}{
		{"no from", "", "/dashboard"},
		{"local from", "/settings", "/settings"},
		{"external from", "https://evil.example/", "/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := anonymous()
			stub.loginFn = func(context.Context, string, string) (domain.Identity, error) { return student, nil }
			body := `{"email":"student@example.com","password":"password123","from":"` + tt.from + `"}`
			c, rec := newContext(t, http.MethodPost, "/auth/login", body, stub)

			if err := NewAuthHandler().Login(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			var resp authResponse
			_ = json.Unmarshal(rec.Body.Bytes(), &resp)
			if resp.Redirect != tt.want {
				t.Fatalf("redirect = %q, want %q", resp.Redirect, tt.want)
			}
		})
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := anonymous()
	stub.returnTo = "/messages"
	stub.loginFn = func(context.Context, string, string) (domain.Identity, error) {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}
	c, _ := newContext(t, http.MethodPost, "/auth/login", `{"email":"student@example.com","password":"wrong"}`, stub)

	if err := NewAuthHandler().Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if stub.returnTo != "/messages" {
		t.Fatalf("failed login must keep the return location")
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	c, _ := newContext(t, http.MethodPost, "/auth/login", `{"email":`, anonymous())
	if code := httpCode(t, NewAuthHandler().Login(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	calls := 0
	stub := signedIn(student)
	stub.logoutFn = func(context.Context) error { calls++; return nil }

	for i := 0; i < 2; i++ {
		c, rec := newContext(t, http.MethodPost, "/auth/logout", "", stub)
		if err := NewAuthHandler().Logout(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("expected 2 logout calls, got %d", calls)
	}
}

func TestAuthHandler_ForgotPassword(t *testing.T) {
	stub := anonymous()
	stub.forgotFn = func(_ context.Context, email string) error {
		if email == "ghost@example.com" {
			return domain.ErrUnknownEmail
		}
		return nil
	}

	c, rec := newContext(t, http.MethodPost, "/auth/forgot-password", `{"email":"student@example.com"}`, stub)
	if err := NewAuthHandler().ForgotPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}

	c, _ = newContext(t, http.MethodPost, "/auth/forgot-password", `{"email":"ghost@example.com"}`, stub)
	if err := NewAuthHandler().ForgotPassword(c); !errors.Is(err, domain.ErrUnknownEmail) {
		t.Fatalf("expected ErrUnknownEmail, got %v", err)
	}
}

func TestAuthHandler_Session(t *testing.T) {
	c, rec := newContext(t, http.MethodGet, "/auth/session", "", signedIn(student))
	if err := NewAuthHandler().Session(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["state"] != "authenticated" || resp["loading"] != false {
		t.Fatalf("unexpected session payload: %v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "student@example.com" {
		t.Fatalf("unexpected user: %v", resp["user"])
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("password leaked into session payload")
	}
}

func TestAuthHandler_MissingSession(t *testing.T) {
	c, _ := newContext(t, http.MethodGet, "/auth/session", "", nil)
	if code := httpCode(t, NewAuthHandler().Session(c)); code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
}
