package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/wwicak/digital-signage-sub001/internal/metrics"
)

// Reserved event names used by the surrounding system.
const (
	// EventConnected is the handshake event sent immediately after a stream opens.
	EventConnected = "connected"
	// EventDisplayUpdated is the scoped event sent when a display or one of its
	// widgets changes. The payload carries at least {displayId, action}.
	EventDisplayUpdated = "display_updated"
	// EventAdminUpdate is the fixed event name used for global broadcasts to
	// admin dashboards.
	EventAdminUpdate = "adminUpdate"
)

// StreamWriter is the minimum write capability a connection must expose
// before events can be pushed to it.
type StreamWriter interface {
	io.Writer
	http.Flusher
}

// Encode renders one server-sent event frame:
//
//	event: <name>\n
//	data: <compact json(payload)>\n
//	\n
//
// Returns an error only if the payload cannot be marshaled to JSON.
func Encode(name string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for event %q: %w", name, err)
	}

	frame := make([]byte, 0, 7+len(name)+7+len(data)+2)
	frame = append(frame, "event: "...)
	frame = append(frame, name...)
	frame = append(frame, "\ndata: "...)
	frame = append(frame, data...)
	frame = append(frame, "\n\n"...)
	return frame, nil
}

// Send pushes one event to a single connection. Connections that do not
// expose the stream write capability are skipped with a diagnostic and no
// error; nothing is written in that case. A failed transport write propagates
// to the caller — failure isolation across subscribers is the Dispatcher's
// job, not Send's.
func Send(conn any, name string, payload any) error {
	w, ok := conn.(StreamWriter)
	if !ok {
		slog.Warn("Attempted to send SSE event on a non-SSE response object.")
		metrics.SSENonStreamSendsTotal.Inc()
		return nil
	}

	frame, err := Encode(name, payload)
	if err != nil {
		return err
	}

	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("failed to write event %q: %w", name, err)
	}
	w.Flush()
	return nil
}
