package ports

import (
	"context"

	"github.com/portesillo/tracking-service/internal/core/domain"
)

// NotificationDispatcher delivers a notification to its target user.
// Callers treat it as best-effort: an error never undoes the change that
// triggered the notification.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n domain.Notification) error
}

// Broadcaster pushes order events to every subscriber of the order's room.
// Delivery is fire-and-forget.
type Broadcaster interface {
	BroadcastStatus(orderID string, status domain.OrderStatus, metadata map[string]any)
	BroadcastOrderUpdate(orderID string, fields map[string]any)
	BroadcastLocation(orderID string, loc domain.DriverLocation)
	BroadcastArrival(orderID string, point domain.ArrivalPoint)
	BroadcastETA(orderID string, minutes int)
	RoomCount() int
}
