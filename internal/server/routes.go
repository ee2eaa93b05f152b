package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (not rate limited)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	api := s.echo.Group("/api", newRateLimiter(s.config.RateLimitPerSecond, s.config.RateLimitBurst))

	// Display CRUD
	api.GET("/displays", s.handleListDisplays)
	api.POST("/displays", s.handleCreateDisplay)
	api.GET("/displays/:id", s.handleGetDisplay)
	api.PUT("/displays/:id", s.handleUpdateDisplay)
	api.DELETE("/displays/:id", s.handleDeleteDisplay)

	// Widget CRUD
	api.GET("/displays/:id/widgets", s.handleListWidgets)
	api.POST("/displays/:id/widgets", s.handleCreateWidget)
	api.PUT("/widgets/:id", s.handleUpdateWidget)
	api.DELETE("/widgets/:id", s.handleDeleteWidget)

	// Event stream (signage clients and admin dashboards)
	api.GET("/displays/:id/events", s.handleDisplayEvents)
}
