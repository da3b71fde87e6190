package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portesillo/tracking-service/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

type fakeSub struct {
	id     string
	frames chan []byte
}

func newFakeSub(id string, buffer int) *fakeSub {
	return &fakeSub{id: id, frames: make(chan []byte, buffer)}
}

func (s *fakeSub) ID() string { return s.id }

func (s *fakeSub) Send(frame []byte) bool {
	select {
	case s.frames <- frame:
		return true
	default:
		return false
	}
}

// drain returns the envelopes received so far.
func (s *fakeSub) drain(t *testing.T) []Envelope {
	t.Helper()
	var out []Envelope
	for {
		select {
		case f := <-s.frames:
			var env Envelope
			require.NoError(t, json.Unmarshal(f, &env))
			out = append(out, env)
		default:
			return out
		}
	}
}

func events(envs []Envelope) []string {
	out := make([]string, 0, len(envs))
	for _, e := range envs {
		out = append(out, e.Event)
	}
	return out
}

type loopbackRelay struct {
	mu        sync.Mutex
	hub       *Hub
	err       error
	published []RelayMessage
}

func (r *loopbackRelay) Publish(_ context.Context, msg RelayMessage) error {
	r.mu.Lock()
	r.published = append(r.published, msg)
	err := r.err
	r.mu.Unlock()
	if err != nil {
		return err
	}
	r.hub.Deliver(msg)
	return nil
}

func newTestHub() *Hub {
	return NewHub(nil, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Membership
// ---------------------------------------------------------------------------

func TestHub_JoinIsIdempotent(t *testing.T) {
	h := newTestHub()
	sub := newFakeSub("c1", 8)

	assert.True(t, h.Join("order-1", sub, domain.RoleCustomer))
	assert.False(t, h.Join("order-1", sub, domain.RoleCustomer))

	assert.Equal(t, 1, h.MemberCount("order-1"))
	assert.Equal(t, 1, h.RoomCount())
	assert.True(t, h.IsMember("order-1", "c1"))
}

func TestHub_LeaveDeletesEmptyRoom(t *testing.T) {
	h := newTestHub()
	a, b := newFakeSub("a", 8), newFakeSub("b", 8)
	h.Join("order-1", a, "")
	h.Join("order-1", b, "")

	h.Leave("order-1", "a")
	assert.Equal(t, 1, h.RoomCount())
	assert.False(t, h.IsMember("order-1", "a"))

	h.Leave("order-1", "b")
	assert.Equal(t, 0, h.RoomCount())
	assert.Empty(t, h.Rooms())

	// leaving a room twice or a room that never existed is harmless
	h.Leave("order-1", "b")
	h.Leave("order-404", "a")
}

func TestHub_DisconnectLeavesEveryRoom(t *testing.T) {
	h := newTestHub()
	a, b := newFakeSub("a", 8), newFakeSub("b", 8)
	h.Join("order-1", a, "")
	h.Join("order-2", a, "")
	h.Join("order-2", b, "")

	left := h.Disconnect("a")

	assert.ElementsMatch(t, []string{"order-1", "order-2"}, left)
	assert.False(t, h.IsMember("order-1", "a"))
	assert.False(t, h.IsMember("order-2", "a"))
	assert.True(t, h.IsMember("order-2", "b"))
	assert.Equal(t, 1, h.RoomCount())
	assert.Empty(t, h.Disconnect("a"))
}

// ---------------------------------------------------------------------------
// Broadcasts
// ---------------------------------------------------------------------------

func TestHub_UserJoinedExcludesJoiner(t *testing.T) {
	h := newTestHub()
	driver, customer := newFakeSub("driver", 8), newFakeSub("customer", 8)
	h.Join("order-1", driver, domain.RoleDriver)
	h.Join("order-1", customer, domain.RoleCustomer)

	assert.Equal(t, []string{domain.EventUserJoined}, events(driver.drain(t)))
	assert.Empty(t, customer.drain(t))
}

func TestHub_BroadcastReachesMembersOnly(t *testing.T) {
	h := newTestHub()
	a, b, other := newFakeSub("a", 8), newFakeSub("b", 8), newFakeSub("other", 8)
	h.Join("order-1", a, "")
	h.Join("order-1", b, "")
	h.Join("order-2", other, "")
	a.drain(t)
	h.Leave("order-1", "b")

	h.BroadcastStatus("order-1", domain.StatusDriverOnWay, nil)

	got := a.drain(t)
	require.Len(t, got, 1)
	assert.Equal(t, domain.EventOrderStatusUpdate, got[0].Event)

	var payload statusPayload
	require.NoError(t, json.Unmarshal(got[0].Data, &payload))
	assert.Equal(t, "order-1", payload.OrderID)
	assert.Equal(t, string(domain.StatusDriverOnWay), payload.Status)

	assert.Empty(t, b.drain(t), "departed member must not receive")
	assert.Empty(t, other.drain(t), "other rooms must not receive")
}

func TestHub_BroadcastToEmptyRoomIsNoop(t *testing.T) {
	h := newTestHub()
	h.BroadcastETA("order-404", 12)
	assert.Equal(t, 0, h.RoomCount())
}

func TestHub_FullBufferDropsWithoutBlocking(t *testing.T) {
	h := newTestHub()
	slow, fast := newFakeSub("slow", 1), newFakeSub("fast", 16)
	h.Join("order-1", slow, "")
	h.Join("order-1", fast, "")
	slow.drain(t)

	for i := 0; i < 5; i++ {
		h.BroadcastETA("order-1", i)
	}

	assert.Len(t, slow.drain(t), 1)
	assert.Len(t, fast.drain(t), 5)
}

func TestHub_OrderUpdateFlattensFields(t *testing.T) {
	h := newTestHub()
	sub := newFakeSub("a", 8)
	h.Join("order-1", sub, "")

	h.BroadcastOrderUpdate("order-1", map[string]any{"driverId": "driver-9"})

	got := sub.drain(t)
	require.Len(t, got, 1)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(got[0].Data, &payload))
	assert.Equal(t, "order-1", payload["orderId"])
	assert.Equal(t, "driver-9", payload["driverId"])
	assert.Contains(t, payload, "timestamp")
}

func TestHub_EchoLocationTargetsOneSubscriber(t *testing.T) {
	h := newTestHub()
	member, reporter := newFakeSub("member", 8), newFakeSub("reporter", 8)
	h.Join("order-1", member, "")

	h.EchoLocation(reporter, "order-1", domain.DriverLocation{
		Coordinates: domain.Coordinates{Latitude: -12.05, Longitude: -77.04},
	})

	got := reporter.drain(t)
	require.Len(t, got, 1)
	assert.Equal(t, domain.EventDriverLocation, got[0].Event)
	assert.Empty(t, member.drain(t))
}

// ---------------------------------------------------------------------------
// Relay
// ---------------------------------------------------------------------------

func TestHub_RelayCarriesFrames(t *testing.T) {
	relay := &loopbackRelay{}
	h := NewHub(relay, zerolog.Nop())
	relay.hub = h
	sub := newFakeSub("a", 8)
	h.Join("order-1", sub, "")

	h.BroadcastArrival("order-1", domain.ArrivalPickup)

	assert.Equal(t, []string{domain.EventDriverArrived}, events(sub.drain(t)))
	relay.mu.Lock()
	defer relay.mu.Unlock()
	require.Len(t, relay.published, 2)
	assert.Equal(t, "a", relay.published[0].Exclude)
}

func TestHub_RelayFailureFallsBackToLocal(t *testing.T) {
	relay := &loopbackRelay{err: errors.New("redis down")}
	h := NewHub(relay, zerolog.Nop())
	relay.hub = h
	sub := newFakeSub("a", 8)
	h.Join("order-1", sub, "")

	h.BroadcastETA("order-1", 7)

	assert.Equal(t, []string{domain.EventEstimatedArrival}, events(sub.drain(t)))
}
