package server

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/gridsky/internal/middleware"
	"github.com/nfrund/gridsky/web"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	rateLimiter := middleware.RateLimiter(s.cfg.RateLimit, s.cfg.RateBurst)

	s.E.GET("/health", s.health.HealthGet)
	s.E.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: s.gatherer}))
	s.E.StaticFS("/static", echo.MustSubFS(web.FS, "static"))
	s.E.GET("/oauth/client-metadata.json", s.auth.ClientMetadata)

	// Everything below belongs to a browser.
	s.E.GET("/", s.home.HomeGet, middleware.Browser, rateLimiter)
	s.E.POST("/logout", s.auth.Logout, middleware.Browser, rateLimiter)
	s.E.GET("/signed-out", s.auth.SignedOutGet, middleware.Browser)

	pages := s.E.Group("/pages/:page", middleware.Browser)
	pages.GET("/header", s.fragments.Header)
	pages.GET("/grid", s.fragments.Grid)
	pages.GET("/rows/:row", s.fragments.Row)
	pages.GET("/posts", s.fragments.Post)
	pages.GET("/events", s.events.Handler())
}
