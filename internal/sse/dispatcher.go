package sse

import (
	"log/slog"

	"github.com/wwicak/digital-signage-sub001/internal/metrics"
)

// Dispatcher fans events out to the subscribers held in a Registry.
//
// Both dispatch paths isolate failures per subscriber: a failed write is
// logged, counted, and never prevents delivery to the next subscriber or
// channel. Dispatch only reads the registry; it never creates entries.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Registry returns the registry this dispatcher fans out over.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// SendToChannel delivers one event to every subscriber of a single channel.
// An unknown or empty channel is a silent no-op: displays that have never
// connected are routine, not errors.
func (d *Dispatcher) SendToChannel(channel, name string, payload any) {
	d.registry.mu.Lock()
	defer d.registry.mu.Unlock()

	conns, ok := d.registry.clients[channel]
	if !ok {
		return
	}
	d.deliver(conns, channel, name, payload, "scoped")
}

// Broadcast delivers one event to every subscriber of every channel.
func (d *Dispatcher) Broadcast(name string, payload any) {
	d.registry.mu.Lock()
	defer d.registry.mu.Unlock()

	for channel, conns := range d.registry.clients {
		d.deliver(conns, channel, name, payload, "broadcast")
	}
}

// Subscribe registers conn on channel and sends the connected handshake as
// one atomic step, so a concurrent dispatch cannot interleave with the
// greeting. The connection stays registered even if the handshake write
// fails; the caller deregisters via Unsubscribe on its way out.
func (d *Dispatcher) Subscribe(channel string, conn any) error {
	d.registry.mu.Lock()
	defer d.registry.mu.Unlock()

	d.registry.addLocked(channel, conn)

	if err := Send(conn, EventConnected, map[string]string{"displayId": channel}); err != nil {
		metrics.SSEDeliveryErrorsTotal.WithLabelValues("handshake").Inc()
		return err
	}
	metrics.SSEEventsSentTotal.WithLabelValues(EventConnected).Inc()
	return nil
}

// Unsubscribe deregisters conn from channel. Safe to call more than once.
func (d *Dispatcher) Unsubscribe(channel string, conn any) {
	d.registry.RemoveClient(channel, conn)
}

// deliver attempts a send on every connection, isolating failures. Callers
// hold the registry mutex.
func (d *Dispatcher) deliver(conns []any, channel, name string, payload any, scope string) {
	for _, conn := range conns {
		if err := Send(conn, name, payload); err != nil {
			slog.Error("Failed to deliver SSE event",
				"channel", channel,
				"event", name,
				"scope", scope,
				"error", err,
			)
			metrics.SSEDeliveryErrorsTotal.WithLabelValues(scope).Inc()
			continue
		}
		metrics.SSEEventsSentTotal.WithLabelValues(name).Inc()
	}
}
