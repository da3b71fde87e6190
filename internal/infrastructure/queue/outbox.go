package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/portesillo/tracking-service/internal/api/metrics"
	"github.com/portesillo/tracking-service/internal/core/domain"
	"github.com/portesillo/tracking-service/internal/core/ports"
)

const (
	defaultOutboxBuffer = 1024
	deliveryTimeout     = 5 * time.Second
)

// Outbox decouples notification delivery from the request path. Dispatch
// only enqueues; a background worker hands each notification to the sink.
type Outbox struct {
	queue chan domain.Notification
	sink  ports.NotificationDispatcher
	log   zerolog.Logger
}

// NewOutbox creates an Outbox holding up to buffer pending notifications.
func NewOutbox(buffer int, sink ports.NotificationDispatcher, log zerolog.Logger) *Outbox {
	if buffer <= 0 {
		buffer = defaultOutboxBuffer
	}
	return &Outbox{
		queue: make(chan domain.Notification, buffer),
		sink:  sink,
		log:   log.With().Str("component", "outbox").Logger(),
	}
}

// Dispatch enqueues n without blocking. A full queue is a dispatch failure.
func (o *Outbox) Dispatch(_ context.Context, n domain.Notification) error {
	select {
	case o.queue <- n:
		metrics.NotificationsTotal.WithLabelValues("outbox", "ok").Inc()
		return nil
	default:
		metrics.NotificationsTotal.WithLabelValues("outbox", "dropped").Inc()
		return fmt.Errorf("outbox full: %w", domain.ErrDispatchFailure)
	}
}

// Start drains the queue until ctx is cancelled.
func (o *Outbox) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				if n := len(o.queue); n > 0 {
					o.log.Warn().Int("pending", n).Msg("outbox stopped with undelivered notifications")
				}
				return
			case n := <-o.queue:
				o.deliver(ctx, n)
			}
		}
	}()
}

func (o *Outbox) deliver(ctx context.Context, n domain.Notification) {
	ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	if err := o.sink.Dispatch(ctx, n); err != nil {
		o.log.Warn().Err(err).
			Str("user_id", n.UserID).
			Str("order_id", n.OrderID).
			Str("type", string(n.Type)).
			Msg("notification delivery failed")
	}
}
