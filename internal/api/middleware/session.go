package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/skillbridge/session-gateway/internal/core/ports"
)

const (
	// SessionCookie carries the signed client session token.
	SessionCookie = "sb_session"

	contextKeySession   = "session"
	contextKeySessionID = "session_id"
)

// TokenCodec issues and verifies client session tokens.
type TokenCodec interface {
	NewSessionID() string
	Issue(sessionID string) (string, error)
	Parse(raw string) (string, time.Time, error)
	TTL() time.Duration
}

// SessionConfig configures the Session middleware.
type SessionConfig struct {
	Tokens   TokenCodec
	Registry ports.SessionRegistry
	// Secure marks the cookie as HTTPS only.
	Secure bool
	Log    zerolog.Logger
}

// Session resolves the caller's session store. The token is read from the
// session cookie or an Authorization bearer header; a missing or invalid
// token starts a fresh anonymous session and sets a new cookie. A valid
// token past half its lifetime is reissued for the same session id.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, exp, err := cfg.Tokens.Parse(rawToken(c))
			switch {
			case err != nil:
				sid = cfg.Tokens.NewSessionID()
				if err := setSessionCookie(c, cfg, sid); err != nil {
					return err
				}
				cfg.Log.Debug().Str("session_id", sid).Msg("started client session")
			case time.Until(exp) < cfg.Tokens.TTL()/2:
				if err := setSessionCookie(c, cfg, sid); err != nil {
					return err
				}
				cfg.Log.Debug().Str("session_id", sid).Msg("refreshed client session")
			}

			c.Set(contextKeySessionID, sid)
			SetSession(c, cfg.Registry.Get(c.Request().Context(), sid))
			return next(c)
		}
	}
}

func setSessionCookie(c echo.Context, cfg SessionConfig, sid string) error {
	token, err := cfg.Tokens.Issue(sid)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.Tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func rawToken(c echo.Context) string {
	if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// SetSession attaches s to the request context.
func SetSession(c echo.Context, s ports.SessionService) {
	c.Set(contextKeySession, s)
}

// SessionFrom returns the store attached by the Session middleware.
func SessionFrom(c echo.Context) (ports.SessionService, bool) {
	s, ok := c.Get(contextKeySession).(ports.SessionService)
	return s, ok && s != nil
}

// SessionIDFrom returns the client session id attached by the Session middleware.
func SessionIDFrom(c echo.Context) string {
	sid, _ := c.Get(contextKeySessionID).(string)
	return sid
}
