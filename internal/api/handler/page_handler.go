package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skillbridge/session-gateway/internal/core/domain"
	"github.com/skillbridge/session-gateway/internal/core/service"
)

// PageHandler describes the pages the guard lets through.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Dashboard sends the client to the landing page of its role.
//
// @Summary      Dashboard entry point
// @Tags         pages
// @Success      302
// @Success      202  {object}  map[string]string
// @Router       /dashboard [get]
func (h *PageHandler) Dashboard(c echo.Context) error {
	store, err := ctxSession(c)
	if err != nil {
		return err
	}
	snap := store.Snapshot()
	if snap.Loading {
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusAccepted, map[string]string{"status": "loading"})
	}
	return c.Redirect(http.StatusFound, service.DashboardTarget(snap))
}

// Login describes the login page. An already signed-in client is sent on to
// its dashboard.
//
// @Summary      Login page
// @Tags         pages
// @Produce      json
// @Param        from  query     string  false  "Page to return to after login"
// @Success      200   {object}  pageResponse
// @Success      302
// @Router       /login [get]
func (h *PageHandler) Login(c echo.Context) error {
	store, err := ctxSession(c)
	if err != nil {
		return err
	}
	if store.Snapshot().Authenticated() {
		return c.Redirect(http.StatusFound, domain.PathDashboard)
	}
	from := c.QueryParam("from")
	if !domain.IsLocalPath(from) {
		from = ""
	}
	return c.JSON(http.StatusOK, pageResponse{Page: "Login", Path: domain.PathLogin, From: from})
}

// Section returns the descriptor renderer for one guarded section.
//
// @Summary      Guarded page
// @Tags         pages
// @Produce      json
// @Success      200  {object}  pageResponse
// @Success      202  {object}  map[string]string
// @Success      302
// @Router       /student-dashboard [get]
// @Router       /messages [get]
// @Router       /employer-dashboard [get]
// @Router       /admin-panel [get]
// @Router       /settings [get]
func (h *PageHandler) Section(section domain.Section) echo.HandlerFunc {
	return func(c echo.Context) error {
		store, err := ctxSession(c)
		if err != nil {
			return err
		}
		snap := store.Snapshot()
		if !snap.Authenticated() {
			return domain.ErrNotAuthenticated
		}
		return c.JSON(http.StatusOK, pageResponse{
			Page:  section.Title,
			Path:  c.Request().URL.Path,
			User:  snap.Identity,
			Links: domain.NavigationFor(*snap.Identity),
		})
	}
}
