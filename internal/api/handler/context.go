package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skillbridge/session-gateway/internal/api/middleware"
	"github.com/skillbridge/session-gateway/internal/core/ports"
)

// ctxSession returns the session store attached by the Session middleware.
// Its absence means the route was registered outside the session group.
func ctxSession(c echo.Context) (ports.SessionService, error) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session middleware missing")
	}
	return s, nil
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
