package ports

import (
	"context"
	"time"

	"github.com/portesillo/tracking-service/internal/core/domain"
)

// UpdateStatusInput is the DTO passed from the transport layer to TrackingService.
type UpdateStatusInput struct {
	OrderID  string
	Status   string
	Reason   string         // recorded only for cancelled
	DriverID string         // applied only on pending -> accepted
	Metadata map[string]any // forwarded to room subscribers
	// IdempotencyKey makes a retried request a no-op within the dedup window.
	IdempotencyKey string
}

// AssignDriverInput assigns a driver to a pending order.
type AssignDriverInput struct {
	OrderID  string
	DriverID string
}

// UpdateLocationInput carries one driver position report.
type UpdateLocationInput struct {
	OrderID    string
	Latitude   float64
	Longitude  float64
	Heading    *float64
	Speed      *float64
	RecordedAt *time.Time // optional device capture time
}

// LocationResult is returned after a location update was applied.
type LocationResult struct {
	Location   domain.DriverLocation
	ETAMinutes *int
}

// ArrivalInput reports the driver reaching pickup or delivery.
type ArrivalInput struct {
	OrderID string
	Point   string
}

// TrackingSnapshot is the current tracking view of an order.
type TrackingSnapshot struct {
	OrderID                 string
	Status                  domain.OrderStatus
	CurrentDriverLocation   *domain.DriverLocation
	PickupCoords            domain.Coordinates
	DeliveryCoords          domain.Coordinates
	Route                   []domain.Coordinates
	DistanceKm              float64
	EstimatedArrivalMinutes *int
	Timestamps              domain.Timestamps
	CreatedAt               time.Time
	Customer                *domain.PartySummary
	Driver                  *domain.PartySummary
}

// TrackingStats is the aggregate operational view.
type TrackingStats struct {
	ActiveOrders int64
	ActiveRooms  int
	Timestamp    time.Time
}

// TrackingService owns the status machine and the location tracker.
type TrackingService interface {
	UpdateStatus(ctx context.Context, in UpdateStatusInput) (*domain.Order, error)
	AssignDriver(ctx context.Context, in AssignDriverInput) (*domain.Order, error)
	UpdateLocation(ctx context.Context, in UpdateLocationInput) (*LocationResult, error)
	NotifyArrival(ctx context.Context, in ArrivalInput) (*domain.Order, error)
	Snapshot(ctx context.Context, orderID string) (*TrackingSnapshot, error)
	Stats(ctx context.Context) (*TrackingStats, error)
}
