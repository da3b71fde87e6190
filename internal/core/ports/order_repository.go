package ports

import (
	"context"

	"github.com/portesillo/tracking-service/internal/core/domain"
)

// ListOrdersFilter carries the query parameters for listing orders.
type ListOrdersFilter struct {
	CustomerID string               // optional
	DriverID   string               // optional
	Statuses   []domain.OrderStatus // empty = any status
	Limit      int                  // 0 = repository default
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// Update replaces the stored order only if its version still equals
	// expectedVersion and returns domain.ErrConflict otherwise. On success
	// o.Version holds the new version.
	Update(ctx context.Context, o *domain.Order, expectedVersion int64) error
	// List returns orders matching filter, newest first.
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, error)
	CountByStatuses(ctx context.Context, statuses []domain.OrderStatus) (int64, error)
}

// PartyRepository reads customer and driver summaries owned by other services.
type PartyRepository interface {
	FindCustomer(ctx context.Context, id string) (*domain.PartySummary, error)
	FindDriver(ctx context.Context, id string) (*domain.PartySummary, error)
}
