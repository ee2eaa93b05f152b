package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Widget is one content block shown on a display (clock, calendar,
// announcement, and so on). Data holds the widget-type-specific settings.
type Widget struct {
	ID        string
	DisplayID string
	Kind      string
	Data      json.RawMessage
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WidgetRepository persists widgets.
type WidgetRepository interface {
	Create(ctx context.Context, widget *Widget) error
	GetByID(ctx context.Context, id string) (*Widget, error)
	ListByDisplay(ctx context.Context, displayID string) ([]Widget, error)
	Update(ctx context.Context, widget *Widget) error
	Delete(ctx context.Context, id string) error
}
