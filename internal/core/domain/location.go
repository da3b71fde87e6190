package domain

import (
	"fmt"
	"time"
)

// Coordinates represents a geographic point.
type Coordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// IsZero reports whether c is the zero value, which is how a point that was
// never stored decodes.
func (c Coordinates) IsZero() bool {
	return c.Latitude == 0 && c.Longitude == 0
}

// Validate checks latitude and longitude ranges.
func (c Coordinates) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90,90]", ErrMalformedInput, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180,180]", ErrMalformedInput, c.Longitude)
	}
	return nil
}

// DriverLocation is the latest position reported by the driver of an order.
// Timestamp is assigned by the server; RecordedAt is the optional device
// capture time used to reject out-of-order readings.
type DriverLocation struct {
	Coordinates `bson:",inline"`
	Heading     *float64   `json:"heading,omitempty" bson:"heading,omitempty"`
	Speed       *float64   `json:"speed,omitempty" bson:"speed,omitempty"`
	RecordedAt  *time.Time `json:"recordedAt,omitempty" bson:"recorded_at,omitempty"`
	Timestamp   time.Time  `json:"timestamp" bson:"timestamp"`
}

// Validate checks coordinates plus the optional heading and speed.
func (l DriverLocation) Validate() error {
	if err := l.Coordinates.Validate(); err != nil {
		return err
	}
	if l.Heading != nil && (*l.Heading < 0 || *l.Heading >= 360) {
		return fmt.Errorf("%w: heading %v out of range [0,360)", ErrMalformedInput, *l.Heading)
	}
	if l.Speed != nil && *l.Speed < 0 {
		return fmt.Errorf("%w: speed must not be negative", ErrMalformedInput)
	}
	return nil
}

// ArrivalPoint identifies which end of the trip the driver reached.
type ArrivalPoint string

const (
	ArrivalPickup   ArrivalPoint = "pickup"
	ArrivalDelivery ArrivalPoint = "delivery"
)

// Status returns the order status entered when the driver reaches this point.
func (p ArrivalPoint) Status() (OrderStatus, error) {
	switch p {
	case ArrivalPickup:
		return StatusArrivedPickup, nil
	case ArrivalDelivery:
		return StatusArrivedDelivery, nil
	default:
		return "", fmt.Errorf("%w: unknown arrival point %q", ErrMalformedInput, p)
	}
}
