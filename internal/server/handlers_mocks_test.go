package server

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wwicak/digital-signage-sub001/internal/config"
	"github.com/wwicak/digital-signage-sub001/internal/domain"
	apperrors "github.com/wwicak/digital-signage-sub001/internal/errors"
	"github.com/wwicak/digital-signage-sub001/internal/sse"
)

// --- Mock implementations ---

type mockDisplayRepo struct {
	createFn  func(ctx context.Context, display *domain.Display) error
	getByIDFn func(ctx context.Context, id string) (*domain.Display, error)
	listFn    func(ctx context.Context) ([]domain.Display, error)
	updateFn  func(ctx context.Context, display *domain.Display) error
	deleteFn  func(ctx context.Context, id string) error
}

func (m *mockDisplayRepo) Create(ctx context.Context, display *domain.Display) error {
	if m.createFn != nil {
		return m.createFn(ctx, display)
	}
	return nil
}

func (m *mockDisplayRepo) GetByID(ctx context.Context, id string) (*domain.Display, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrDisplayNotFound
}

func (m *mockDisplayRepo) List(ctx context.Context) ([]domain.Display, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockDisplayRepo) Update(ctx context.Context, display *domain.Display) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, display)
	}
	return nil
}

func (m *mockDisplayRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockWidgetRepo struct {
	createFn        func(ctx context.Context, widget *domain.Widget) error
	getByIDFn       func(ctx context.Context, id string) (*domain.Widget, error)
	listByDisplayFn func(ctx context.Context, displayID string) ([]domain.Widget, error)
	updateFn        func(ctx context.Context, widget *domain.Widget) error
	deleteFn        func(ctx context.Context, id string) error
}

func (m *mockWidgetRepo) Create(ctx context.Context, widget *domain.Widget) error {
	if m.createFn != nil {
		return m.createFn(ctx, widget)
	}
	return nil
}

func (m *mockWidgetRepo) GetByID(ctx context.Context, id string) (*domain.Widget, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrWidgetNotFound
}

func (m *mockWidgetRepo) ListByDisplay(ctx context.Context, displayID string) ([]domain.Widget, error) {
	if m.listByDisplayFn != nil {
		return m.listByDisplayFn(ctx, displayID)
	}
	return nil, nil
}

func (m *mockWidgetRepo) Update(ctx context.Context, widget *domain.Widget) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, widget)
	}
	return nil
}

func (m *mockWidgetRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error {
	return m.err
}

// displayFound returns a display lookup that succeeds for any id.
func displayFound() func(ctx context.Context, id string) (*domain.Display, error) {
	return func(_ context.Context, id string) (*domain.Display, error) {
		return &domain.Display{ID: id, Name: "Lobby", Layout: "spaced"}, nil
	}
}

// recordingStream collects every event frame written to it, so tests can
// subscribe it to a channel and observe what the handlers dispatch.
type recordingStream struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *recordingStream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *recordingStream) Flush() {}

func (s *recordingStream) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// --- Test helpers ---

func newTestServer(t *testing.T, displays domain.DisplayRepository, widgets domain.WidgetRepository, opts ...func(*Server)) *Server {
	t.Helper()

	e := echo.New()
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:        e,
		config:      &config.Config{Port: "0", RateLimitPerSecond: 1000, RateLimitBurst: 1000},
		displays:    displays,
		widgets:     widgets,
		events:      sse.NewDispatcher(sse.NewRegistry()),
		connLimiter: NewGlobalConnectionLimiter(100),
		db:          &mockPinger{},
		startTime:   time.Now(),
		shutdown:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(srv)
	}

	// Register routes so endpoints are available for testing
	srv.registerRoutes()

	return srv
}

func withConnectionLimit(max int64) func(*Server) {
	return func(s *Server) {
		s.connLimiter = NewGlobalConnectionLimiter(max)
	}
}

func withPinger(err error) func(*Server) {
	return func(s *Server) {
		s.db = &mockPinger{err: err}
	}
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return apperrors.Middleware()(handler)(c)
}

var errDatabaseDown = errors.New("database down")
