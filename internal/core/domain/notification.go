package domain

import "time"

// NotificationType classifies a notification for the client inbox.
type NotificationType string

const (
	NotificationOrderCreated  NotificationType = "order_created"
	NotificationOrderAccepted NotificationType = "order_accepted"
	NotificationOrderAssigned NotificationType = "order_assigned"
	NotificationOrderStatus   NotificationType = "order_status"
)

// Notification is a message addressed to one user about one order.
type Notification struct {
	ID        string           `json:"id" bson:"_id,omitempty"`
	UserID    string           `json:"userId" bson:"user_id"`
	Message   string           `json:"message" bson:"message"`
	Type      NotificationType `json:"type" bson:"type"`
	OrderID   string           `json:"orderId,omitempty" bson:"order_id,omitempty"`
	Read      bool             `json:"read" bson:"read"`
	CreatedAt time.Time        `json:"createdAt" bson:"created_at"`
}

// statusMessages maps statuses with a user-facing message to its text.
var statusMessages = map[OrderStatus]string{
	StatusDriverOnWay:     "Your driver is on the way to the pickup location",
	StatusArrivedPickup:   "Your driver has arrived at the pickup location",
	StatusInProgress:      "Your order is on its way",
	StatusArrivedDelivery: "Your driver has arrived at the delivery location",
	StatusCompleted:       "Your order has been completed",
	StatusCancelled:       "Your order has been cancelled",
}

// StatusMessage returns the customer-facing text for s, if any.
func StatusMessage(s OrderStatus) (string, bool) {
	msg, ok := statusMessages[s]
	return msg, ok
}
