package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wwicak/digital-signage-sub001/internal/domain"
	apperrors "github.com/wwicak/digital-signage-sub001/internal/errors"
	"github.com/wwicak/digital-signage-sub001/internal/sse"
)

type displayRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Layout   string `json:"layout"`
}

type displayResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Layout    string    `json:"layout"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toDisplayResponse(d *domain.Display) displayResponse {
	return displayResponse{
		ID:        d.ID,
		Name:      d.Name,
		Location:  d.Location,
		Layout:    d.Layout,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// notifyDisplay pushes the scoped display_updated event. Fan-out failures
// never surface here: the mutation that triggered the notification has
// already committed and must not fail because a subscriber went away.
func (s *Server) notifyDisplay(displayID string, action domain.Action) {
	s.events.SendToChannel(displayID, sse.EventDisplayUpdated, domain.DisplayUpdatedPayload{
		DisplayID: displayID,
		Action:    action,
	})
}

func (s *Server) handleListDisplays(c echo.Context) error {
	displays, err := s.displays.List(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to list displays", err)
	}

	resp := make([]displayResponse, 0, len(displays))
	for i := range displays {
		resp = append(resp, toDisplayResponse(&displays[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetDisplay(c echo.Context) error {
	display, err := s.displays.GetByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, domain.ErrDisplayNotFound) {
		return apperrors.NotFoundError("display not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to get display", err)
	}
	return c.JSON(http.StatusOK, toDisplayResponse(display))
}

func (s *Server) handleCreateDisplay(c echo.Context) error {
	var req displayRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Name == "" {
		return apperrors.ValidationError("name is required")
	}
	if req.Layout == "" {
		req.Layout = "spaced"
	}

	display := &domain.Display{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Location: req.Location,
		Layout:   req.Layout,
	}
	if err := s.displays.Create(c.Request().Context(), display); err != nil {
		return apperrors.InternalError("failed to create display", err)
	}

	s.notifyDisplay(display.ID, domain.ActionCreate)
	s.events.Broadcast(sse.EventAdminUpdate, map[string]string{"entity": "display", "displayId": display.ID})

	return c.JSON(http.StatusCreated, toDisplayResponse(display))
}

func (s *Server) handleUpdateDisplay(c echo.Context) error {
	var req displayRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	display, err := s.displays.GetByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, domain.ErrDisplayNotFound) {
		return apperrors.NotFoundError("display not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to get display", err)
	}

	if req.Name != "" {
		display.Name = req.Name
	}
	if req.Location != "" {
		display.Location = req.Location
	}
	if req.Layout != "" {
		display.Layout = req.Layout
	}

	if err := s.displays.Update(c.Request().Context(), display); err != nil {
		if errors.Is(err, domain.ErrDisplayNotFound) {
			return apperrors.NotFoundError("display not found")
		}
		return apperrors.InternalError("failed to update display", err)
	}

	s.notifyDisplay(display.ID, domain.ActionUpdate)

	return c.JSON(http.StatusOK, toDisplayResponse(display))
}

func (s *Server) handleDeleteDisplay(c echo.Context) error {
	id := c.Param("id")

	err := s.displays.Delete(c.Request().Context(), id)
	if errors.Is(err, domain.ErrDisplayNotFound) {
		return apperrors.NotFoundError("display not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to delete display", err)
	}

	s.notifyDisplay(id, domain.ActionDelete)
	s.events.Broadcast(sse.EventAdminUpdate, map[string]string{"entity": "display", "displayId": id})

	return c.NoContent(http.StatusNoContent)
}
