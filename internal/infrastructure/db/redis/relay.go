package redis

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/portesillo/tracking-service/internal/api/metrics"
	"github.com/portesillo/tracking-service/internal/realtime"
)

// Relay shares hub frames between service instances over a pub/sub channel.
type Relay struct {
	client  *redis.Client
	channel string
	log     zerolog.Logger
}

func NewRelay(client *redis.Client, channel string, log zerolog.Logger) *Relay {
	return &Relay{
		client:  client,
		channel: channel,
		log:     log.With().Str("component", "relay").Str("channel", channel).Logger(),
	}
}

// Publish sends msg to every subscribed instance, including this one.
func (r *Relay) Publish(ctx context.Context, msg realtime.RelayMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("relay encode: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("relay publish: %w", err)
	}
	return nil
}

// Run subscribes to the channel and hands every message to deliver until
// ctx is cancelled.
func (r *Relay) Run(ctx context.Context, deliver func(realtime.RelayMessage)) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("relay subscribe: %w", err)
	}
	r.log.Info().Msg("relay subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg realtime.RelayMessage
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				metrics.RelayErrorsTotal.WithLabelValues("receive").Inc()
				r.log.Warn().Err(err).Msg("discarding malformed relay message")
				continue
			}
			deliver(msg)
		}
	}
}
