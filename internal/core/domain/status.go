package domain

import (
	"fmt"
	"strings"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending         OrderStatus = "pending"
	StatusAccepted        OrderStatus = "accepted"
	StatusDriverOnWay     OrderStatus = "driver_on_way"
	StatusArrivedPickup   OrderStatus = "arrived_pickup"
	StatusInProgress      OrderStatus = "in_progress"
	StatusArrivedDelivery OrderStatus = "arrived_delivery"
	StatusCompleted       OrderStatus = "completed"
	StatusCancelled       OrderStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// Terminal statuses have no entry.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:         {StatusAccepted, StatusCancelled},
	StatusAccepted:        {StatusDriverOnWay, StatusCancelled},
	StatusDriverOnWay:     {StatusArrivedPickup, StatusCancelled},
	StatusArrivedPickup:   {StatusInProgress, StatusCancelled},
	StatusInProgress:      {StatusArrivedDelivery, StatusCancelled},
	StatusArrivedDelivery: {StatusCompleted, StatusCancelled},
}

var allStatuses = []OrderStatus{
	StatusPending,
	StatusAccepted,
	StatusDriverOnWay,
	StatusArrivedPickup,
	StatusInProgress,
	StatusArrivedDelivery,
	StatusCompleted,
	StatusCancelled,
}

// trackingStatuses are the legs during which the driver reports a live position.
var trackingStatuses = []OrderStatus{StatusAccepted, StatusDriverOnWay, StatusInProgress}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsTracking reports whether location updates are accepted in this status.
func (s OrderStatus) IsTracking() bool {
	for _, t := range trackingStatuses {
		if s == t {
			return true
		}
	}
	return false
}

// IsValid reports whether s is one of the known statuses.
func (s OrderStatus) IsValid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus converts a raw string into an OrderStatus.
func ParseStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrMalformedInput, raw)
	}
	return s, nil
}

// AllStatuses returns every status in lifecycle order.
func AllStatuses() []OrderStatus {
	out := make([]OrderStatus, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// TrackingStatuses returns the statuses that accept location updates.
func TrackingStatuses() []OrderStatus {
	out := make([]OrderStatus, len(trackingStatuses))
	copy(out, trackingStatuses)
	return out
}
