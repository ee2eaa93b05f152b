package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wwicak/digital-signage-sub001/internal/domain"
	apperrors "github.com/wwicak/digital-signage-sub001/internal/errors"
)

type widgetRequest struct {
	Kind     string          `json:"kind"`
	Data     json.RawMessage `json:"data"`
	Position int             `json:"position"`
}

type widgetResponse struct {
	ID        string          `json:"id"`
	DisplayID string          `json:"displayId"`
	Kind      string          `json:"kind"`
	Data      json.RawMessage `json:"data"`
	Position  int             `json:"position"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func toWidgetResponse(w *domain.Widget) widgetResponse {
	return widgetResponse{
		ID:        w.ID,
		DisplayID: w.DisplayID,
		Kind:      w.Kind,
		Data:      w.Data,
		Position:  w.Position,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func (s *Server) handleListWidgets(c echo.Context) error {
	displayID := c.Param("id")

	widgets, err := s.widgets.ListByDisplay(c.Request().Context(), displayID)
	if err != nil {
		return apperrors.InternalError("failed to list widgets", err)
	}

	resp := make([]widgetResponse, 0, len(widgets))
	for i := range widgets {
		resp = append(resp, toWidgetResponse(&widgets[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCreateWidget(c echo.Context) error {
	displayID := c.Param("id")

	var req widgetRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Kind == "" {
		return apperrors.ValidationError("kind is required")
	}
	if len(req.Data) == 0 {
		req.Data = json.RawMessage(`{}`)
	}

	if _, err := s.displays.GetByID(c.Request().Context(), displayID); err != nil {
		if errors.Is(err, domain.ErrDisplayNotFound) {
			return apperrors.NotFoundError("display not found")
		}
		return apperrors.InternalError("failed to get display", err)
	}

	widget := &domain.Widget{
		ID:        uuid.NewString(),
		DisplayID: displayID,
		Kind:      req.Kind,
		Data:      req.Data,
		Position:  req.Position,
	}
	if err := s.widgets.Create(c.Request().Context(), widget); err != nil {
		return apperrors.InternalError("failed to create widget", err)
	}

	s.notifyDisplay(displayID, domain.ActionUpdate)

	return c.JSON(http.StatusCreated, toWidgetResponse(widget))
}

func (s *Server) handleUpdateWidget(c echo.Context) error {
	var req widgetRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	widget, err := s.widgets.GetByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, domain.ErrWidgetNotFound) {
		return apperrors.NotFoundError("widget not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to get widget", err)
	}

	if req.Kind != "" {
		widget.Kind = req.Kind
	}
	if len(req.Data) > 0 {
		widget.Data = req.Data
	}
	widget.Position = req.Position

	if err := s.widgets.Update(c.Request().Context(), widget); err != nil {
		if errors.Is(err, domain.ErrWidgetNotFound) {
			return apperrors.NotFoundError("widget not found")
		}
		return apperrors.InternalError("failed to update widget", err)
	}

	s.notifyDisplay(widget.DisplayID, domain.ActionUpdate)

	return c.JSON(http.StatusOK, toWidgetResponse(widget))
}

func (s *Server) handleDeleteWidget(c echo.Context) error {
	widget, err := s.widgets.GetByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, domain.ErrWidgetNotFound) {
		return apperrors.NotFoundError("widget not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to get widget", err)
	}

	if err := s.widgets.Delete(c.Request().Context(), widget.ID); err != nil {
		if errors.Is(err, domain.ErrWidgetNotFound) {
			return apperrors.NotFoundError("widget not found")
		}
		return apperrors.InternalError("failed to delete widget", err)
	}

	s.notifyDisplay(widget.DisplayID, domain.ActionUpdate)

	return c.NoContent(http.StatusNoContent)
}
