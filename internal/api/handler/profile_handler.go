package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skillbridge/session-gateway/internal/core/domain"
)

// ProfileHandler serves the signed-in user's own data.
type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

// Update merges the given fields into the session identity. id, role and
// joinedAt cannot be changed.
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      profileRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /profile [patch]
func (h *ProfileHandler) Update(c echo.Context) error {
	var req profileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	store, err := ctxSession(c)
	if err != nil {
		return err
	}

	start := time.Now()
	user, err := store.UpdateProfile(c.Request().Context(), req.patch())
	observe("update_profile", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// Navigation lists the dashboard links for the signed-in role.
//
// @Summary      Role navigation
// @Tags         profile
// @Produce      json
// @Success      200  {object}  navigationResponse
// @Router       /navigation [get]
func (h *ProfileHandler) Navigation(c echo.Context) error {
	store, err := ctxSession(c)
	if err != nil {
		return err
	}
	snap := store.Snapshot()
	if !snap.Authenticated() {
		return domain.ErrNotAuthenticated
	}
	return c.JSON(http.StatusOK, navigationResponse{Items: domain.NavigationFor(*snap.Identity)})
}
