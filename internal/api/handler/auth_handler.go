package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skillbridge/session-gateway/internal/core/domain"
)

// AuthHandler serves the session lifecycle endpoints.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Signup creates an account and logs the client in.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	store, err := ctxSession(c)
	if err != nil {
		return err
	}

	start := time.Now()
	user, err := store.Signup(c.Request().Context(), req.Name, req.Email, req.Password, domain.Role(req.Role))
	observe("signup", start, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: user, Redirect: domain.PathDashboard})
}

// Login authenticates the client. The redirect is the page that sent the
// client to login, or the dashboard.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	store, err := ctxSession(c)
	if err != nil {
		return err
	}

	start := time.Now()
	user, err := store.Login(c.Request().Context(), req.Email, req.Password)
	observe("login", start, err)
	if err != nil {
		return err
	}

	redirect, ok := store.TakeReturnTo()
	if !ok {
		redirect = domain.PathDashboard
		if domain.IsLocalPath(req.From) {
			redirect = req.From
		}
	}
	return c.JSON(http.StatusOK, authResponse{User: user, Redirect: redirect})
}

// Logout ends the session. Logging out twice is not an error.
//
// @Summary      Log out
// @Tags         auth
// @Success      204
// @Failure      500  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	store, err := ctxSession(c)
	if err != nil {
		return err
	}

	start := time.Now()
	err = store.Logout(c.Request().Context())
	observe("logout", start, err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ForgotPassword queues a reset link for a known email.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      202   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	store, err := ctxSession(c)
	if err != nil {
		return err
	}

	start := time.Now()
	err = store.ForgotPassword(c.Request().Context(), req.Email)
	observe("forgot_password", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, messageResponse{Message: "password reset link sent to " + req.Email})
}

// Session reports the state of the client session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	store, err := ctxSession(c)
	if err != nil {
		return err
	}
	snap := store.Snapshot()
	return c.JSON(http.StatusOK, sessionResponse{
		State:   snap.State,
		Loading: snap.Loading,
		User:    snap.Identity,
	})
}
