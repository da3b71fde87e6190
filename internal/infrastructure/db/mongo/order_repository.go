package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portesillo/tracking-service/internal/core/domain"
	"github.com/portesillo/tracking-service/internal/core/ports"
)

const (
	collectionOrders = "orders"
	defaultListLimit = 50
)

type OrderRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

// NewOrderRepository binds the orders collection. Every call is bounded by
// timeout, or defaultTimeout when timeout <= 0.
func NewOrderRepository(db *mongo.Database, timeout time.Duration) *OrderRepository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OrderRepository{col: db.Collection(collectionOrders), timeout: timeout}
}

// Create inserts a new order document.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// FindByID retrieves an order by its id.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var o domain.Order
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &o, nil
}

// Update replaces the document only when its version still equals
// expectedVersion, bumping the version in the same write.
func (r *OrderRepository) Update(ctx context.Context, o *domain.Order, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	next := *o
	next.Version = expectedVersion + 1

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": o.ID, "version": expectedVersion}, &next)
	if err != nil {
		return fmt.Errorf("replace order: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.col.CountDocuments(ctx, bson.M{"_id": o.ID})
		if err != nil {
			return fmt.Errorf("replace order: %w", err)
		}
		if n == 0 {
			return domain.ErrOrderNotFound
		}
		return domain.ErrConflict
	}

	o.Version = next.Version
	return nil
}

// List returns orders matching filter, newest first.
func (r *OrderRepository) List(ctx context.Context, f ports.ListOrdersFilter) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{}
	if f.CustomerID != "" {
		filter["customer_id"] = f.CustomerID
	}
	if f.DriverID != "" {
		filter["driver_id"] = f.DriverID
	}
	if len(f.Statuses) > 0 {
		filter["status"] = bson.M{"$in": f.Statuses}
	}

	limit := int64(f.Limit)
	if limit <= 0 {
		limit = defaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	orders := make([]*domain.Order, 0)
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// CountByStatuses counts the orders currently in any of statuses.
func (r *OrderRepository) CountByStatuses(ctx context.Context, statuses []domain.OrderStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"status": bson.M{"$in": statuses}})
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates necessary indexes on the orders collection.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "driver_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
