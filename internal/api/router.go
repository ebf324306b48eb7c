package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/skillbridge/session-gateway/docs"
	"github.com/skillbridge/session-gateway/internal/api/handler"
	"github.com/skillbridge/session-gateway/internal/api/middleware"
	"github.com/skillbridge/session-gateway/internal/core/domain"
	"github.com/skillbridge/session-gateway/internal/core/ports"
	"github.com/skillbridge/session-gateway/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Registry ports.SessionRegistry
	Tokens   middleware.TokenCodec
	// Readiness lists the backends checked by /health/ready.
	Readiness     map[string]handlers.Checker
	SecureCookies bool
	// Metrics replaces the default Prometheus registry when set.
	Metrics *prometheus.Registry
	Log     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Operational endpoints (no session) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(deps.Readiness).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session-bound routes ---
	app := e.Group("", middleware.Session(middleware.SessionConfig{
		Tokens:   deps.Tokens,
		Registry: deps.Registry,
		Secure:   deps.SecureCookies,
		Log:      deps.Log,
	}))

	auth := handler.NewAuthHandler()
	app.POST("/auth/signup", auth.Signup)
	app.POST("/auth/login", auth.Login)
	app.POST("/auth/logout", auth.Logout)
	app.POST("/auth/forgot-password", auth.ForgotPassword)
	app.GET("/auth/session", auth.Session)

	profile := handler.NewProfileHandler()
	app.PATCH("/profile", profile.Update)
	app.GET("/navigation", profile.Navigation)

	pages := handler.NewPageHandler()
	app.GET(domain.PathLogin, pages.Login)
	app.GET(domain.PathDashboard, pages.Dashboard)

	// --- Guarded sections ---
	for _, s := range domain.Sections() {
		g := app.Group(s.Prefix, middleware.Guard(s.Roles...))
		page := pages.Section(s)
		g.GET("", page)
		g.GET("/*", page)
	}

	return e
}
