package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/skillbridge/session-gateway/internal/api/metrics"
	"github.com/skillbridge/session-gateway/internal/core/domain"
	"github.com/skillbridge/session-gateway/internal/core/service"
)

// Guard restricts a route subtree to the allowed roles; with no roles any
// authenticated identity passes. Anonymous callers are sent to login with the
// requested location remembered, callers with another role are sent to their
// own landing page, and a session that is still settling gets 202.
func Guard(allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store, ok := SessionFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusInternalServerError, "session middleware missing")
			}

			location := c.Request().URL.RequestURI()
			d := service.Authorize(store.Snapshot(), allowed, location)

			switch d.Kind {
			case service.DecisionLoading:
				metrics.GuardDecisionsTotal.WithLabelValues("loading").Inc()
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusAccepted, map[string]string{"status": "loading"})
			case service.DecisionRender:
				metrics.GuardDecisionsTotal.WithLabelValues("render").Inc()
				return next(c)
			}

			if d.Target == domain.PathLogin {
				metrics.GuardDecisionsTotal.WithLabelValues("redirect_login").Inc()
				store.RememberReturnTo(d.From)
				return c.Redirect(http.StatusFound, LoginLocation(d.From))
			}
			metrics.GuardDecisionsTotal.WithLabelValues("redirect_landing").Inc()
			return c.Redirect(http.StatusFound, d.Target)
		}
	}
}

// LoginLocation is the login path carrying from as the return location.
func LoginLocation(from string) string {
	if !domain.IsLocalPath(from) {
		return domain.PathLogin
	}
	return domain.PathLogin + "?from=" + url.QueryEscape(from)
}
