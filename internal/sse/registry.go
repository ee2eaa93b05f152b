package sse

import (
	"sync"

	"github.com/wwicak/digital-signage-sub001/internal/metrics"
)

// Registry tracks which open event streams are subscribed to which display
// channel. It holds non-owning references: the underlying transports belong
// to the request layer, the registry only does bookkeeping.
//
// Connection handles are opaque and compared by interface identity, so they
// must be comparable (pointers in practice). The same handle added twice
// appears twice and receives duplicate events; callers register exactly once
// per physical connection.
//
// A single mutex guards the whole map. Dispatch enumeration (see Dispatcher)
// runs under the same mutex, so a connection is never written to after it has
// been removed and a channel key exists iff it has at least one subscriber.
type Registry struct {
	mu      sync.Mutex
	clients map[string][]any
}

// NewRegistry creates an empty registry. Each instance is independent;
// tests and shards construct their own rather than sharing process state.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string][]any)}
}

// AddClient appends conn to the channel's subscriber list, creating the list
// if absent. No deduplication is performed.
func (r *Registry) AddClient(channel string, conn any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addLocked(channel, conn)
}

func (r *Registry) addLocked(channel string, conn any) {
	r.clients[channel] = append(r.clients[channel], conn)
	metrics.SSEConnectedClients.Inc()
	metrics.SSEActiveChannels.Set(float64(len(r.clients)))
}

// RemoveClient removes the first occurrence of conn from the channel's list,
// deleting the channel entry entirely if it empties. Removing an absent
// connection, or from an unknown channel, is a silent no-op.
func (r *Registry) RemoveClient(channel string, conn any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(channel, conn)
}

func (r *Registry) removeLocked(channel string, conn any) {
	conns, ok := r.clients[channel]
	if !ok {
		return
	}

	for i, c := range conns {
		if c != conn {
			continue
		}
		conns = append(conns[:i], conns[i+1:]...)
		metrics.SSEConnectedClients.Dec()
		if len(conns) == 0 {
			delete(r.clients, channel)
			metrics.SSEActiveChannels.Set(float64(len(r.clients)))
		} else {
			r.clients[channel] = conns
		}
		return
	}
}

// Connections returns a snapshot of the channel's current subscribers.
// The snapshot reflects all prior synchronous AddClient/RemoveClient calls.
func (r *Registry) Connections(channel string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.clients[channel]
	if !ok {
		return nil
	}
	snapshot := make([]any, len(conns))
	copy(snapshot, conns)
	return snapshot
}

// Channels returns a snapshot of the whole registry, channel by channel.
func (r *Registry) Channels() map[string][]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[string][]any, len(r.clients))
	for channel, conns := range r.clients {
		cs := make([]any, len(conns))
		copy(cs, conns)
		snapshot[channel] = cs
	}
	return snapshot
}

// ClientCount returns the number of subscribers currently on a channel.
func (r *Registry) ClientCount(channel string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients[channel])
}

// Reset clears the entire registry. Intended for test harnesses and the
// graceful-shutdown path, not steady-state operation.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, conns := range r.clients {
		total += len(conns)
	}
	metrics.SSEConnectedClients.Sub(float64(total))
	r.clients = make(map[string][]any)
	metrics.SSEActiveChannels.Set(0)
}
