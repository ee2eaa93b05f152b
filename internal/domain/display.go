package domain

import (
	"context"
	"time"
)

// Action describes what happened to a display in a display_updated event.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Display is one physical signage screen. Its ID doubles as the channel
// identity that event streams subscribe to.
type Display struct {
	ID        string
	Name      string
	Location  string
	Layout    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayUpdatedPayload is the payload of a scoped display_updated event.
type DisplayUpdatedPayload struct {
	DisplayID string `json:"displayId"`
	Action    Action `json:"action"`
}

// DisplayRepository persists displays.
type DisplayRepository interface {
	Create(ctx context.Context, display *Display) error
	GetByID(ctx context.Context, id string) (*Display, error)
	List(ctx context.Context) ([]Display, error)
	Update(ctx context.Context, display *Display) error
	Delete(ctx context.Context, id string) error
}
