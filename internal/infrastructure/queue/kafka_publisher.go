package queue

import (
	"context"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"

	"github.com/portesillo/tracking-service/internal/core/domain"
)

// MessageWriter is the subset of *kafka.Writer used by KafkaPublisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter returns a writer for topic on the comma-separated broker list.
func NewKafkaWriter(brokers, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

// KafkaPublisher forwards notifications to the topic consumed by the push
// delivery workers. Messages are keyed by user so one user's notifications
// stay ordered.
type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Dispatch(ctx context.Context, n domain.Notification) error {
	value, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("kafka publish: encode: %w", err)
	}
	msg := kafka.Message{Key: []byte(n.UserID), Value: value}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
