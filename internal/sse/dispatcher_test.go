package sse

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_SendToChannel_DeliversToAllSubscribers(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	r1, r2, r3 := &fakeStream{}, &fakeStream{}, &fakeStream{}
	reg.AddClient("d1", r1)
	reg.AddClient("d1", r2)
	reg.AddClient("d2", r3)

	d.SendToChannel("d1", EventDisplayUpdated, map[string]string{"displayId": "d1", "action": "update"})

	want := "event: display_updated\ndata: {\"action\":\"update\",\"displayId\":\"d1\"}\n\n"
	assert.Equal(t, want, r1.frames())
	assert.Equal(t, want, r2.frames())
	assert.Empty(t, r3.frames(), "subscribers of other channels must receive nothing")
}

func TestDispatcher_SendToChannel_UnknownChannelIsNoop(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	assert.NotPanics(t, func() {
		d.SendToChannel("never-connected", EventDisplayUpdated, map[string]string{"displayId": "x"})
	})
	assert.Empty(t, reg.Channels(), "dispatch must never create registry entries")
}

func TestDispatcher_SendToChannel_FailureIsolation(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	failing := &fakeStream{writeErr: errors.New("connection reset")}
	healthy := &fakeStream{}
	reg.AddClient("d1", failing)
	reg.AddClient("d1", healthy)

	d.SendToChannel("d1", EventDisplayUpdated, map[string]string{"displayId": "d1", "action": "delete"})

	assert.NotEmpty(t, healthy.frames(), "a failing subscriber must not block the rest")
}

func TestDispatcher_Broadcast_DeliversAcrossChannels(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	r1, r2, r3 := &fakeStream{}, &fakeStream{}, &fakeStream{}
	reg.AddClient("d1", r1)
	reg.AddClient("d1", r2)
	reg.AddClient("d2", r3)

	d.Broadcast(EventAdminUpdate, map[string]string{"msg": "x"})

	want := "event: adminUpdate\ndata: {\"msg\":\"x\"}\n\n"
	for _, conn := range []*fakeStream{r1, r2, r3} {
		assert.Equal(t, want, conn.frames())
	}
}

func TestDispatcher_Broadcast_FailureIsolation(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	failing := &fakeStream{writeErr: errors.New("broken pipe")}
	h1, h2 := &fakeStream{}, &fakeStream{}
	reg.AddClient("d1", failing)
	reg.AddClient("d1", h1)
	reg.AddClient("d2", h2)

	d.Broadcast(EventAdminUpdate, map[string]string{"msg": "still delivered"})

	assert.NotEmpty(t, h1.frames(), "same-channel subscribers still receive after a failure")
	assert.NotEmpty(t, h2.frames(), "other channels still receive after a failure")
}

func TestDispatcher_Broadcast_NoClients(t *testing.T) {
	d := NewDispatcher(NewRegistry())

	assert.NotPanics(t, func() {
		d.Broadcast(EventAdminUpdate, map[string]string{"msg": "x"})
	})
}

func TestDispatcher_Broadcast_NonStreamConnectionSkipped(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	healthy := &fakeStream{}
	reg.AddClient("d1", &struct{ tag string }{tag: "not a stream"})
	reg.AddClient("d1", healthy)

	d.Broadcast(EventAdminUpdate, map[string]string{"msg": "x"})

	assert.NotEmpty(t, healthy.frames())
}

func TestDispatcher_Subscribe_SendsHandshake(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)
	conn := &fakeStream{}

	require.NoError(t, d.Subscribe("d1", conn))

	assert.Equal(t, "event: connected\ndata: {\"displayId\":\"d1\"}\n\n", conn.frames())
	assert.Equal(t, 1, reg.ClientCount("d1"))
}

func TestDispatcher_Subscribe_HandshakeFailureKeepsRegistration(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)
	conn := &fakeStream{writeErr: errors.New("closed")}

	err := d.Subscribe("d1", conn)
	require.Error(t, err)

	// The caller deregisters on its way out; Unsubscribe stays idempotent.
	assert.Equal(t, 1, reg.ClientCount("d1"))
	d.Unsubscribe("d1", conn)
	d.Unsubscribe("d1", conn)
	assert.Zero(t, reg.ClientCount("d1"))
}

func TestDispatcher_ConcurrentDispatchAndChurn(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	var wg sync.WaitGroup
	for range 16 {
		conn := &fakeStream{}
		wg.Add(2)
		go func() {
			defer wg.Done()
			reg.AddClient("d1", conn)
			reg.RemoveClient("d1", conn)
		}()
		go func() {
			defer wg.Done()
			d.SendToChannel("d1", EventDisplayUpdated, map[string]string{"displayId": "d1", "action": "update"})
			d.Broadcast(EventAdminUpdate, map[string]string{"msg": "x"})
		}()
	}
	wg.Wait()

	assert.Empty(t, reg.Channels())
}
