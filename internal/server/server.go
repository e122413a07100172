package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/gridsky/internal/agent"
	"github.com/nfrund/gridsky/internal/config"
	"github.com/nfrund/gridsky/internal/handlers"
	"github.com/nfrund/gridsky/internal/middleware"
	"github.com/nfrund/gridsky/internal/rendering"
	"github.com/nfrund/gridsky/internal/websocket"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps are the collaborators the server routes to.
type Deps struct {
	Config *config.Config
	Pages  *agent.Registry
	Events *websocket.Bridge

	Home      *handlers.HomeHandler
	Fragments *handlers.FragmentHandler
	Auth      *handlers.AuthHandler
	Health    *handlers.HealthHandler

	// Registerer and Gatherer back the HTTP metrics and /metrics. They
	// default to the prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	// Cleanup runs in order after the HTTP server and the pages shut down.
	Cleanup []func(context.Context) error
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	E   *echo.Echo
	cfg *config.Config

	pages     *agent.Registry
	events    *websocket.Bridge
	home      *handlers.HomeHandler
	fragments *handlers.FragmentHandler
	auth      *handlers.AuthHandler
	health    *handlers.HealthHandler
	gatherer  prometheus.Gatherer
	cleanup   []func(context.Context) error
}

// New creates a new Server with its middleware stack installed. Routes are
// added by RegisterRoutes.
func New(deps Deps) *Server {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = rendering.NewUniversalRenderer()
	e.Validator = handlers.NewValidator()
	setupErrorHandling(e)

	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "gridsky",
		Registerer: deps.Registerer,
	}))

	store := sessions.NewCookieStore([]byte(deps.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 365,
		HttpOnly: true,
		Secure:   !deps.Config.IsDevelopment(),
		// The OAuth callback arrives as a top-level cross-site GET.
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	return &Server{
		E:         e,
		cfg:       deps.Config,
		pages:     deps.Pages,
		events:    deps.Events,
		home:      deps.Home,
		fragments: deps.Fragments,
		auth:      deps.Auth,
		health:    deps.Health,
		gatherer:  deps.Gatherer,
		cleanup:   deps.Cleanup,
	}
}

// janitorInterval is how often idle pages are looked for.
func (s *Server) janitorInterval() time.Duration {
	interval := s.cfg.PageTTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}
