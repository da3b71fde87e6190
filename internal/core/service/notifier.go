package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/portesillo/tracking-service/internal/core/domain"
	"github.com/portesillo/tracking-service/internal/core/ports"
)

const (
	msgOrderCreated  = "Your order was created. We are looking for an available driver."
	msgOrderAccepted = "A driver has accepted your order!"
	msgOrderAssigned = "A new order has been assigned to you"
)

// notifier is the post-commit hook that turns order changes into
// notifications. Dispatch errors are logged and swallowed.
type notifier struct {
	dispatcher ports.NotificationDispatcher
	log        zerolog.Logger
}

func newNotifier(dispatcher ports.NotificationDispatcher, log zerolog.Logger) *notifier {
	return &notifier{dispatcher: dispatcher, log: log}
}

func (n *notifier) orderCreated(ctx context.Context, o *domain.Order) {
	n.send(ctx, o.CustomerID, msgOrderCreated, domain.NotificationOrderCreated, o.ID)
}

func (n *notifier) driverAssigned(ctx context.Context, o *domain.Order) {
	n.send(ctx, o.CustomerID, msgOrderAccepted, domain.NotificationOrderAccepted, o.ID)
	n.send(ctx, o.DriverID, msgOrderAssigned, domain.NotificationOrderAssigned, o.ID)
}

func (n *notifier) statusChanged(ctx context.Context, o *domain.Order, status domain.OrderStatus) {
	msg, ok := domain.StatusMessage(status)
	if !ok {
		return
	}
	n.send(ctx, o.CustomerID, msg, domain.NotificationOrderStatus, o.ID)
}

func (n *notifier) send(ctx context.Context, userID, message string, typ domain.NotificationType, orderID string) {
	if n.dispatcher == nil || userID == "" {
		return
	}
	err := n.dispatcher.Dispatch(ctx, domain.Notification{
		UserID:    userID,
		Message:   message,
		Type:      typ,
		OrderID:   orderID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		n.log.Warn().Err(err).
			Str("order_id", orderID).
			Str("user_id", userID).
			Str("type", string(typ)).
			Msg("notification dispatch failed")
	}
}
