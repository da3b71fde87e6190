// Package realtime fans order events out to the sockets subscribed to each
// order's room.
package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/portesillo/tracking-service/internal/api/metrics"
	"github.com/portesillo/tracking-service/internal/core/domain"
)

const relayPublishTimeout = time.Second

// Subscriber is one receiving end of a room.
type Subscriber interface {
	ID() string
	// Send queues frame without blocking and reports whether it was accepted.
	Send(frame []byte) bool
}

// RelayMessage is a frame shared with the other instances of the service.
type RelayMessage struct {
	OrderID string `json:"orderId"`
	Exclude string `json:"exclude,omitempty"`
	Frame   []byte `json:"frame"`
}

// Relay carries frames between instances so rooms span the whole fleet.
// Published messages come back to every instance, this one included,
// through Hub.Deliver.
type Relay interface {
	Publish(ctx context.Context, msg RelayMessage) error
}

// Hub owns the room table. rooms maps order id to its members; memberships
// is the reverse index used to clean up a connection in one sweep.
type Hub struct {
	mu          sync.RWMutex
	rooms       map[string]map[string]Subscriber
	memberships map[string]map[string]struct{}

	relay Relay
	log   zerolog.Logger
	now   func() time.Time
}

// NewHub creates an empty hub. relay may be nil for single-instance deployments.
func NewHub(relay Relay, log zerolog.Logger) *Hub {
	return &Hub{
		rooms:       make(map[string]map[string]Subscriber),
		memberships: make(map[string]map[string]struct{}),
		relay:       relay,
		log:         log.With().Str("component", "hub").Logger(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Join adds sub to the order's room and tells the existing members.
// Joining twice is a no-op and returns false.
func (h *Hub) Join(orderID string, sub Subscriber, userType string) bool {
	h.mu.Lock()
	room, ok := h.rooms[orderID]
	if !ok {
		room = make(map[string]Subscriber)
		h.rooms[orderID] = room
	}
	if _, member := room[sub.ID()]; member {
		h.mu.Unlock()
		return false
	}
	room[sub.ID()] = sub
	idx, ok := h.memberships[sub.ID()]
	if !ok {
		idx = make(map[string]struct{})
		h.memberships[sub.ID()] = idx
	}
	idx[orderID] = struct{}{}
	rooms := len(h.rooms)
	h.mu.Unlock()

	metrics.ActiveRooms.Set(float64(rooms))
	h.log.Debug().Str("order_id", orderID).Str("conn_id", sub.ID()).Str("user_type", userType).Msg("joined room")

	h.broadcast(orderID, domain.EventUserJoined, userJoinedPayload{
		UserType:  userType,
		Timestamp: h.now(),
	}, sub.ID())
	return true
}

// Leave removes the connection from one room, deleting the room when empty.
func (h *Hub) Leave(orderID, connID string) {
	h.mu.Lock()
	h.removeLocked(orderID, connID)
	rooms := len(h.rooms)
	h.mu.Unlock()

	metrics.ActiveRooms.Set(float64(rooms))
}

// Disconnect removes the connection from every room it joined and returns
// the affected order ids.
func (h *Hub) Disconnect(connID string) []string {
	h.mu.Lock()
	left := lo.Keys(h.memberships[connID])
	for _, orderID := range left {
		h.removeLocked(orderID, connID)
	}
	delete(h.memberships, connID)
	rooms := len(h.rooms)
	h.mu.Unlock()

	metrics.ActiveRooms.Set(float64(rooms))
	return left
}

func (h *Hub) removeLocked(orderID, connID string) {
	if room, ok := h.rooms[orderID]; ok {
		delete(room, connID)
		if len(room) == 0 {
			delete(h.rooms, orderID)
		}
	}
	if idx, ok := h.memberships[connID]; ok {
		delete(idx, orderID)
		if len(idx) == 0 {
			delete(h.memberships, connID)
		}
	}
}

// IsMember reports whether connID is subscribed to the order's room.
func (h *Hub) IsMember(orderID, connID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[orderID][connID]
	return ok
}

// RoomCount returns the number of rooms with at least one member.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// MemberCount returns the number of subscribers in the order's room.
func (h *Hub) MemberCount(orderID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[orderID])
}

// Rooms lists the order ids that currently have subscribers.
func (h *Hub) Rooms() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return lo.Keys(h.rooms)
}

// ── Broadcasts ────────────────────────────────────────────────────────────────

func (h *Hub) BroadcastStatus(orderID string, status domain.OrderStatus, metadata map[string]any) {
	h.broadcast(orderID, domain.EventOrderStatusUpdate, statusPayload{
		OrderID:   orderID,
		Status:    string(status),
		Metadata:  metadata,
		Timestamp: h.now(),
	}, "")
}

func (h *Hub) BroadcastOrderUpdate(orderID string, fields map[string]any) {
	payload := lo.Assign(fields, map[string]any{
		"orderId":   orderID,
		"timestamp": h.now(),
	})
	h.broadcast(orderID, domain.EventOrderUpdate, payload, "")
}

func (h *Hub) BroadcastLocation(orderID string, loc domain.DriverLocation) {
	h.broadcast(orderID, domain.EventDriverLocation, h.locationPayload(orderID, loc), "")
}

func (h *Hub) BroadcastArrival(orderID string, point domain.ArrivalPoint) {
	h.broadcast(orderID, domain.EventDriverArrived, arrivalPayload{
		OrderID:   orderID,
		Location:  string(point),
		Timestamp: h.now(),
	}, "")
}

func (h *Hub) BroadcastETA(orderID string, minutes int) {
	h.broadcast(orderID, domain.EventEstimatedArrival, etaPayload{
		OrderID:          orderID,
		EstimatedMinutes: minutes,
		Timestamp:        h.now(),
	}, "")
}

// RequestLocation asks the room (the driver, in practice) to report a fresh position.
func (h *Hub) RequestLocation(orderID, requestedBy string) {
	h.broadcast(orderID, domain.EventLocationRequested, locationRequestedPayload{
		OrderID:     orderID,
		RequestedBy: requestedBy,
		Timestamp:   h.now(),
	}, "")
}

// EchoLocation sends a driver-location frame straight to sub.
func (h *Hub) EchoLocation(sub Subscriber, orderID string, loc domain.DriverLocation) {
	frame, err := encodeFrame(domain.EventDriverLocation, "", h.locationPayload(orderID, loc))
	if err != nil {
		h.log.Error().Err(err).Msg("encode location echo")
		return
	}
	if !sub.Send(frame) {
		metrics.DroppedMessagesTotal.Inc()
	}
}

func (h *Hub) locationPayload(orderID string, loc domain.DriverLocation) driverLocationPayload {
	return driverLocationPayload{
		OrderID:   orderID,
		Location:  coordinatesPayload{Latitude: loc.Latitude, Longitude: loc.Longitude},
		Heading:   loc.Heading,
		Speed:     loc.Speed,
		Timestamp: loc.Timestamp,
	}
}

// broadcast encodes the event once and hands it to the relay or, without
// one, straight to local members.
func (h *Hub) broadcast(orderID, event string, payload any, exclude string) {
	frame, err := encodeFrame(event, "", payload)
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("encode broadcast")
		return
	}
	metrics.BroadcastsTotal.WithLabelValues(event).Inc()

	msg := RelayMessage{OrderID: orderID, Exclude: exclude, Frame: frame}
	if h.relay != nil {
		ctx, cancel := context.WithTimeout(context.Background(), relayPublishTimeout)
		err := h.relay.Publish(ctx, msg)
		cancel()
		if err == nil {
			return
		}
		metrics.RelayErrorsTotal.WithLabelValues("publish").Inc()
		h.log.Warn().Err(err).Str("order_id", orderID).Msg("relay publish failed, delivering locally")
	}
	h.Deliver(msg)
}

// Deliver writes a pre-encoded frame to the local members of its room.
// Sends happen outside the lock; a full subscriber buffer drops the frame
// for that subscriber only.
func (h *Hub) Deliver(msg RelayMessage) {
	h.mu.RLock()
	room := h.rooms[msg.OrderID]
	targets := make([]Subscriber, 0, len(room))
	for id, sub := range room {
		if id != msg.Exclude {
			targets = append(targets, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range targets {
		if !sub.Send(msg.Frame) {
			metrics.DroppedMessagesTotal.Inc()
			h.log.Debug().Str("order_id", msg.OrderID).Str("conn_id", sub.ID()).Msg("dropped frame for slow subscriber")
		}
	}
}
