package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SSE fan-out metrics
var (
	// SSEConnectedClients tracks the number of currently open event streams
	SSEConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connected_clients",
			Help: "Number of currently connected SSE clients",
		},
	)

	// SSEActiveChannels tracks the number of display channels with at least one subscriber
	SSEActiveChannels = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_active_channels",
			Help: "Number of display channels with at least one subscriber",
		},
	)

	// SSEEventsSentTotal tracks successfully delivered events by event name
	SSEEventsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sse_events_sent_total",
			Help: "Total SSE events delivered, by event name",
		},
		[]string{"event"},
	)

	// SSEDeliveryErrorsTotal tracks failed event writes by dispatch scope
	SSEDeliveryErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sse_delivery_errors_total",
			Help: "Total failed SSE event writes, by dispatch scope (scoped/broadcast/handshake)",
		},
		[]string{"scope"},
	)

	// SSENonStreamSendsTotal tracks send attempts on connections lacking stream capability
	SSENonStreamSendsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sse_non_stream_sends_total",
			Help: "Total send attempts on connections that do not expose the SSE write capability",
		},
	)

	// SSEConnectionsRejectedTotal tracks stream connections refused by the connection limiter
	SSEConnectionsRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sse_connections_rejected_total",
			Help: "Total SSE connections rejected because the instance was at capacity",
		},
	)
)

// Database metrics
var (
	// DatabaseQueryErrorsTotal tracks failed repository operations by entity
	DatabaseQueryErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_query_errors_total",
			Help: "Total failed database operations by entity",
		},
		[]string{"entity"},
	)
)
