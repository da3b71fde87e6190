package domain

import (
	"fmt"
	"time"
)

// Timestamps holds the moment each status was first entered. Every field is
// write-once; pending is covered by Order.CreatedAt.
type Timestamps struct {
	AcceptedAt        *time.Time `json:"acceptedAt,omitempty" bson:"accepted_at,omitempty"`
	DriverOnWayAt     *time.Time `json:"driverOnWayAt,omitempty" bson:"driver_on_way_at,omitempty"`
	ArrivedPickupAt   *time.Time `json:"arrivedPickupAt,omitempty" bson:"arrived_pickup_at,omitempty"`
	StartedAt         *time.Time `json:"startedAt,omitempty" bson:"started_at,omitempty"`
	ArrivedDeliveryAt *time.Time `json:"arrivedDeliveryAt,omitempty" bson:"arrived_delivery_at,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty" bson:"completed_at,omitempty"`
	CancelledAt       *time.Time `json:"cancelledAt,omitempty" bson:"cancelled_at,omitempty"`
}

func (t *Timestamps) field(s OrderStatus) **time.Time {
	switch s {
	case StatusAccepted:
		return &t.AcceptedAt
	case StatusDriverOnWay:
		return &t.DriverOnWayAt
	case StatusArrivedPickup:
		return &t.ArrivedPickupAt
	case StatusInProgress:
		return &t.StartedAt
	case StatusArrivedDelivery:
		return &t.ArrivedDeliveryAt
	case StatusCompleted:
		return &t.CompletedAt
	case StatusCancelled:
		return &t.CancelledAt
	}
	return nil
}

// Stamp records now for status s unless a value is already present.
// It reports whether a value was written.
func (t *Timestamps) Stamp(s OrderStatus, now time.Time) bool {
	f := t.field(s)
	if f == nil || *f != nil {
		return false
	}
	ts := now.UTC()
	*f = &ts
	return true
}

// For returns the recorded timestamp for status s, or nil.
func (t Timestamps) For(s OrderStatus) *time.Time {
	f := t.field(s)
	if f == nil {
		return nil
	}
	return *f
}

// Order is the core aggregate root.
type Order struct {
	ID                      string          `json:"id" bson:"_id"`
	CustomerID              string          `json:"customerId" bson:"customer_id"`
	DriverID                string          `json:"driverId,omitempty" bson:"driver_id,omitempty"`
	PickupAddress           string          `json:"pickupAddress" bson:"pickup_address"`
	PickupCoords            Coordinates     `json:"pickupCoords" bson:"pickup_coords"`
	DeliveryAddress         string          `json:"deliveryAddress" bson:"delivery_address"`
	DeliveryCoords          Coordinates     `json:"deliveryCoords" bson:"delivery_coords"`
	Route                   []Coordinates   `json:"routeCoords,omitempty" bson:"route_coords,omitempty"`
	VehicleType             string          `json:"vehicleType" bson:"vehicle_type"`
	Price                   float64         `json:"price" bson:"price"`
	DistanceKm              float64         `json:"distance" bson:"distance_km"`
	Status                  OrderStatus     `json:"status" bson:"status"`
	CurrentDriverLocation   *DriverLocation `json:"currentDriverLocation,omitempty" bson:"current_driver_location,omitempty"`
	Timestamps              Timestamps      `json:"timestamps" bson:"timestamps"`
	EstimatedArrivalMinutes *int            `json:"estimatedArrivalMinutes,omitempty" bson:"estimated_arrival_minutes,omitempty"`
	CancellationReason      string          `json:"cancellationReason,omitempty" bson:"cancellation_reason,omitempty"`
	Notes                   string          `json:"notes,omitempty" bson:"notes,omitempty"`
	Photos                  []string        `json:"photos,omitempty" bson:"photos,omitempty"`
	ScheduledAt             *time.Time      `json:"scheduledAt,omitempty" bson:"scheduled_at,omitempty"`
	CreatedAt               time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt               time.Time       `json:"updatedAt" bson:"updated_at"`

	// Version is bumped on every write and used as the compare-and-set token.
	Version int64 `json:"-" bson:"version"`
}

// TransitionMeta carries the optional side data of a status change.
type TransitionMeta struct {
	// Reason is recorded only when the target is cancelled.
	Reason string
	// DriverID is applied only on pending -> accepted.
	DriverID string
	// Extra is forwarded untouched to room subscribers.
	Extra map[string]any
}

// ApplyTransition moves the order to target. On error the order is left untouched.
func (o *Order) ApplyTransition(target OrderStatus, meta TransitionMeta, now time.Time) error {
	if !o.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w (from %s to %s)", ErrInvalidTransition, o.Status, target)
	}
	if target == StatusAccepted && meta.DriverID != "" {
		if o.DriverID != "" && o.DriverID != meta.DriverID {
			return fmt.Errorf("%w: %s", ErrDriverAlreadyAssigned, o.DriverID)
		}
		o.DriverID = meta.DriverID
	}

	o.Status = target
	o.Timestamps.Stamp(target, now)
	if target == StatusCancelled && meta.Reason != "" {
		o.CancellationReason = meta.Reason
	}
	o.UpdatedAt = now.UTC()
	return nil
}

// ApplyLocation overwrites the current driver location with loc, stamped at now.
func (o *Order) ApplyLocation(loc DriverLocation, now time.Time) error {
	if !o.Status.IsTracking() {
		return fmt.Errorf("%w: status is %s", ErrInvalidState, o.Status)
	}
	if err := loc.Validate(); err != nil {
		return err
	}
	if cur := o.CurrentDriverLocation; cur != nil && cur.RecordedAt != nil && loc.RecordedAt != nil {
		if loc.RecordedAt.Before(*cur.RecordedAt) {
			return fmt.Errorf("%w: got %s, have %s", ErrStaleLocation,
				loc.RecordedAt.UTC().Format(time.RFC3339Nano), cur.RecordedAt.UTC().Format(time.RFC3339Nano))
		}
	}

	loc.Timestamp = now.UTC()
	o.CurrentDriverLocation = &loc
	o.UpdatedAt = now.UTC()
	return nil
}

// ETATarget returns the point the driver is heading to in the current leg.
// Orders stored without coordinates for that leg have no target.
func (o *Order) ETATarget() (Coordinates, bool) {
	var target Coordinates
	switch o.Status {
	case StatusAccepted, StatusDriverOnWay:
		target = o.PickupCoords
	case StatusInProgress:
		target = o.DeliveryCoords
	}
	if target.IsZero() {
		return Coordinates{}, false
	}
	return target, true
}
