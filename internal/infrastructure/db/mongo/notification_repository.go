package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/portesillo/tracking-service/internal/core/domain"
)

const collectionNotifications = "notifications"

// NotificationRepository persists notifications to the users' inbox. It
// satisfies ports.NotificationDispatcher so it can sit behind the outbox.
type NotificationRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewNotificationRepository(db *mongo.Database, timeout time.Duration) *NotificationRepository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &NotificationRepository{col: db.Collection(collectionNotifications), timeout: timeout}
}

// Dispatch stores n as an unread inbox entry.
func (r *NotificationRepository) Dispatch(ctx context.Context, n domain.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	n.Read = false

	if _, err := r.col.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the notifications collection.
func (r *NotificationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
