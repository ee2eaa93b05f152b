package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wwicak/digital-signage-sub001/internal/domain"
	apperrors "github.com/wwicak/digital-signage-sub001/internal/errors"
	"github.com/wwicak/digital-signage-sub001/internal/metrics"
)

// handleDisplayEvents bridges an inbound streaming request to the event
// registry: it registers the response as a subscriber of the display's
// channel, sends the connected handshake, and blocks until the client goes
// away or the server shuts down. Deregistration happens exactly once on the
// way out; a second removal would be a harmless no-op.
//
// There is no heartbeat: a silent client is only detected when a later event
// write fails.
func (s *Server) handleDisplayEvents(c echo.Context) error {
	displayID := c.Param("id")

	if _, err := s.displays.GetByID(c.Request().Context(), displayID); err != nil {
		if errors.Is(err, domain.ErrDisplayNotFound) {
			return apperrors.NotFoundError("display not found").WithContext("display_id", displayID)
		}
		return apperrors.InternalError("failed to look up display", err)
	}

	if !s.connLimiter.Acquire() {
		metrics.SSEConnectionsRejectedTotal.Inc()
		return apperrors.UnavailableError("event stream capacity reached")
	}
	defer s.connLimiter.Release()

	res := c.Response()
	header := res.Header()
	header.Set(echo.HeaderContentType, "text/event-stream")
	header.Set(echo.HeaderCacheControl, "no-cache")
	header.Set(echo.HeaderConnection, "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)

	if err := s.events.Subscribe(displayID, res); err != nil {
		// Handshake write failed, so the client is already gone.
		s.events.Unsubscribe(displayID, res)
		return nil
	}
	defer s.events.Unsubscribe(displayID, res)

	select {
	case <-c.Request().Context().Done():
	case <-s.shutdown:
	}
	return nil
}
