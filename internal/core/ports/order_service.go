package ports

import (
	"context"
	"time"

	"github.com/portesillo/tracking-service/internal/core/domain"
)

// CreateOrderInput carries all data needed to create a new order.
type CreateOrderInput struct {
	CustomerID      string
	PickupAddress   string
	PickupCoords    domain.Coordinates
	DeliveryAddress string
	DeliveryCoords  domain.Coordinates
	Route           []domain.Coordinates
	VehicleType     string
	Price           float64
	DistanceKm      float64
	Notes           string
	Photos          []string
	ScheduledAt     *time.Time
}

// ListOrdersInput scopes a listing to the caller.
type ListOrdersInput struct {
	// Role and UserID decide whose orders are returned: customers see their
	// own, drivers the ones assigned to them, admins everything.
	Role   string
	UserID string
	Limit  int
}

// OrderService defines use-case operations for orders outside the tracking core.
type OrderService interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	ListActive(ctx context.Context) ([]*domain.Order, error)
	ListMine(ctx context.Context, in ListOrdersInput) ([]*domain.Order, error)
}
