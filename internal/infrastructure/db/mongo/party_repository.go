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
)

const (
	collectionUsers   = "users"
	collectionDrivers = "drivers"
)

// ErrPartyNotFound is returned when a customer or driver record is missing.
var ErrPartyNotFound = errors.New("party not found")

// partyProjection keeps credentials and other private fields out of summaries.
var partyProjection = bson.M{
	"name": 1, "phone": 1, "email": 1, "avatar": 1,
	"vehicle_type": 1, "plate_number": 1, "rating": 1, "push_token": 1,
}

// PartyRepository reads customer and driver profiles owned by the accounts service.
type PartyRepository struct {
	users   *mongo.Collection
	drivers *mongo.Collection
	timeout time.Duration
}

func NewPartyRepository(db *mongo.Database, timeout time.Duration) *PartyRepository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &PartyRepository{
		users:   db.Collection(collectionUsers),
		drivers: db.Collection(collectionDrivers),
		timeout: timeout,
	}
}

func (r *PartyRepository) FindCustomer(ctx context.Context, id string) (*domain.PartySummary, error) {
	return r.find(ctx, r.users, id)
}

func (r *PartyRepository) FindDriver(ctx context.Context, id string) (*domain.PartySummary, error) {
	return r.find(ctx, r.drivers, id)
}

func (r *PartyRepository) find(ctx context.Context, col *mongo.Collection, id string) (*domain.PartySummary, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var p domain.PartySummary
	err := col.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(partyProjection)).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s %s: %w", col.Name(), id, ErrPartyNotFound)
		}
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	return &p, nil
}
