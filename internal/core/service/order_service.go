package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/portesillo/tracking-service/internal/core/domain"
	"github.com/portesillo/tracking-service/internal/core/ports"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type OrderService struct {
	repo   ports.OrderRepository
	notify *notifier
	logger zerolog.Logger
}

func NewOrderService(repo ports.OrderRepository, dispatcher ports.NotificationDispatcher, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, notify: newNotifier(dispatcher, logger), logger: logger}
}

// Create stores a new pending order and notifies the customer.
func (s *OrderService) Create(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, error) {
	if in.CustomerID == "" {
		return nil, fmt.Errorf("create order: %w: customer is required", domain.ErrMalformedInput)
	}
	for _, c := range []domain.Coordinates{in.PickupCoords, in.DeliveryCoords} {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("create order: %w", err)
		}
	}
	for _, c := range in.Route {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("create order: route: %w", err)
		}
	}

	now := time.Now().UTC()
	distance := in.DistanceKm
	if distance <= 0 {
		distance = Haversine(in.PickupCoords, in.DeliveryCoords)
	}

	order := &domain.Order{
		ID:              uuid.NewString(),
		CustomerID:      in.CustomerID,
		PickupAddress:   in.PickupAddress,
		PickupCoords:    in.PickupCoords,
		DeliveryAddress: in.DeliveryAddress,
		DeliveryCoords:  in.DeliveryCoords,
		Route:           in.Route,
		VehicleType:     in.VehicleType,
		Price:           in.Price,
		DistanceKm:      distance,
		Status:          domain.StatusPending,
		Notes:           in.Notes,
		Photos:          in.Photos,
		ScheduledAt:     in.ScheduledAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	s.logger.Info().Str("order_id", order.ID).Str("customer_id", order.CustomerID).Msg("order created")
	s.notify.orderCreated(ctx, order)

	return order, nil
}

// Get returns a single order by id.
func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// ListActive returns every order in an active tracking leg.
func (s *OrderService) ListActive(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx, ports.ListOrdersFilter{
		Statuses: domain.TrackingStatuses(),
		Limit:    maxListLimit,
	})
}

// ListMine returns the caller's orders, scoped by role.
func (s *OrderService) ListMine(ctx context.Context, in ports.ListOrdersInput) ([]*domain.Order, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	filter := ports.ListOrdersFilter{Limit: limit}
	switch in.Role {
	case domain.RoleAdmin:
	case domain.RoleDriver:
		filter.DriverID = in.UserID
	case domain.RoleCustomer:
		filter.CustomerID = in.UserID
	default:
		return nil, domain.ErrForbidden
	}
	if in.Role != domain.RoleAdmin && in.UserID == "" {
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx, filter)
}
