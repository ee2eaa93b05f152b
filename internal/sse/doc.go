// Package sse implements the real-time display event broadcaster: a registry
// of live server-sent event streams keyed by display identity, the wire-level
// event encoder, and the fan-out primitives used to notify signage clients and
// admin dashboards when underlying data changes.
//
// Delivery is best effort. Events are never buffered or replayed for clients
// that connect late, there is no heartbeat or keep-alive, and a stalled
// subscriber only falls away once its transport write fails. Fan-out across
// multiple server instances is out of scope; the registry is per-process.
package sse
