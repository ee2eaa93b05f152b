// Package server wires the HTTP surface: display and widget CRUD routes,
// the event-stream endpoint, health checks and metrics.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/wwicak/digital-signage-sub001/internal/config"
	"github.com/wwicak/digital-signage-sub001/internal/domain"
	apperrors "github.com/wwicak/digital-signage-sub001/internal/errors"
	"github.com/wwicak/digital-signage-sub001/internal/sse"
)

// pinger is the minimum interface the readiness check needs from the database.
type pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo         *echo.Echo
	config       *config.Config
	displays     domain.DisplayRepository
	widgets      domain.WidgetRepository
	events       *sse.Dispatcher
	connLimiter  *GlobalConnectionLimiter
	db           pinger
	startTime    time.Time
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

func NewServer(cfg *config.Config, displays domain.DisplayRepository, widgets domain.WidgetRepository, events *sse.Dispatcher, db pinger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(correlationMiddleware())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:        e,
		config:      cfg,
		displays:    displays,
		widgets:     widgets,
		events:      events,
		connLimiter: NewGlobalConnectionLimiter(cfg.MaxSSEConnections),
		db:          db,
		startTime:   time.Now(),
		shutdown:    make(chan struct{}),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

// Shutdown stops the server: open event streams are released first so the
// HTTP server can drain, then the listener closes and the registry is cleared.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() { close(s.shutdown) })

	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}

	s.events.Registry().Reset()
	return nil
}
