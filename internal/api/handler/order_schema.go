package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type coordinatesRequest struct {
	Latitude  *float64 `json:"latitude"  validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type createOrderRequest struct {
	// CustomerID is taken from the token for customers; admins must set it.
	CustomerID      string               `json:"customerId"`
	PickupAddress   string               `json:"pickupAddress"   validate:"required"`
	PickupCoords    coordinatesRequest   `json:"pickupCoords"    validate:"required"`
	DeliveryAddress string               `json:"deliveryAddress" validate:"required"`
	DeliveryCoords  coordinatesRequest   `json:"deliveryCoords"  validate:"required"`
	RouteCoords     []coordinatesRequest `json:"routeCoords"     validate:"omitempty,dive"`
	VehicleType     string               `json:"vehicleType"     validate:"required"`
	Price           float64              `json:"price"           validate:"gte=0"`
	Distance        float64              `json:"distance"        validate:"gte=0"`
	Notes           string               `json:"notes"`
	Photos          []string             `json:"photos"`
	ScheduledAt     *time.Time           `json:"scheduledAt"`
}

type updateStatusRequest struct {
	Status   string         `json:"status" validate:"required"`
	Reason   string         `json:"reason"`
	DriverID string         `json:"driverId"`
	Metadata map[string]any `json:"metadata"`
}

type assignDriverRequest struct {
	DriverID string `json:"driverId"`
}

type updateLocationRequest struct {
	Latitude   *float64   `json:"latitude"   validate:"required,gte=-90,lte=90"`
	Longitude  *float64   `json:"longitude"  validate:"required,gte=-180,lte=180"`
	Heading    *float64   `json:"heading"    validate:"omitempty,gte=0,lt=360"`
	Speed      *float64   `json:"speed"      validate:"omitempty,gte=0"`
	RecordedAt *time.Time `json:"recordedAt"`
}

type arrivalRequest struct {
	Location string `json:"location" validate:"required,oneof=pickup delivery"`
}

// --- Response types ---
// Kept separate from domain types so the JSON contract does not follow
// internal changes.

type coordinatesResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type driverLocationResponse struct {
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	Heading    *float64   `json:"heading,omitempty"`
	Speed      *float64   `json:"speed,omitempty"`
	RecordedAt *time.Time `json:"recordedAt,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

type timestampsResponse struct {
	AcceptedAt        *time.Time `json:"acceptedAt,omitempty"`
	DriverOnWayAt     *time.Time `json:"driverOnWayAt,omitempty"`
	ArrivedPickupAt   *time.Time `json:"arrivedPickupAt,omitempty"`
	StartedAt         *time.Time `json:"startedAt,omitempty"`
	ArrivedDeliveryAt *time.Time `json:"arrivedDeliveryAt,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	CancelledAt       *time.Time `json:"cancelledAt,omitempty"`
}

type orderResponse struct {
	ID                      string                  `json:"id"`
	CustomerID              string                  `json:"customerId"`
	DriverID                string                  `json:"driverId,omitempty"`
	PickupAddress           string                  `json:"pickupAddress"`
	PickupCoords            coordinatesResponse     `json:"pickupCoords"`
	DeliveryAddress         string                  `json:"deliveryAddress"`
	DeliveryCoords          coordinatesResponse     `json:"deliveryCoords"`
	RouteCoords             []coordinatesResponse   `json:"routeCoords,omitempty"`
	VehicleType             string                  `json:"vehicleType"`
	Price                   float64                 `json:"price"`
	Distance                float64                 `json:"distance"`
	Status                  string                  `json:"status"`
	CurrentDriverLocation   *driverLocationResponse `json:"currentDriverLocation,omitempty"`
	EstimatedArrivalMinutes *int                    `json:"estimatedArrivalMinutes,omitempty"`
	Timestamps              timestampsResponse      `json:"timestamps"`
	CancellationReason      string                  `json:"cancellationReason,omitempty"`
	Notes                   string                  `json:"notes,omitempty"`
	Photos                  []string                `json:"photos,omitempty"`
	ScheduledAt             *time.Time              `json:"scheduledAt,omitempty"`
	CreatedAt               time.Time               `json:"createdAt"`
	UpdatedAt               time.Time               `json:"updatedAt"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Count  int             `json:"count"`
}

type locationResponse struct {
	OrderID          string                 `json:"orderId"`
	Location         driverLocationResponse `json:"location"`
	EstimatedMinutes *int                   `json:"estimatedMinutes,omitempty"`
}

type partyResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone,omitempty"`
	Email       string  `json:"email,omitempty"`
	Avatar      string  `json:"avatar,omitempty"`
	VehicleType string  `json:"vehicleType,omitempty"`
	PlateNumber string  `json:"plateNumber,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
}

type trackingResponse struct {
	OrderID                 string                  `json:"orderId"`
	Status                  string                  `json:"status"`
	CurrentDriverLocation   *driverLocationResponse `json:"currentDriverLocation,omitempty"`
	PickupCoords            coordinatesResponse     `json:"pickupCoords"`
	DeliveryCoords          coordinatesResponse     `json:"deliveryCoords"`
	RouteCoords             []coordinatesResponse   `json:"routeCoords,omitempty"`
	Distance                float64                 `json:"distance"`
	EstimatedArrivalMinutes *int                    `json:"estimatedArrivalMinutes,omitempty"`
	Timestamps              timestampsResponse      `json:"timestamps"`
	CreatedAt               time.Time               `json:"createdAt"`
	Customer                *partyResponse          `json:"customer,omitempty"`
	Driver                  *partyResponse          `json:"driver,omitempty"`
}

type statsResponse struct {
	ActiveOrders int64     `json:"activeOrders"`
	ActiveRooms  int       `json:"activeRooms"`
	Timestamp    time.Time `json:"timestamp"`
}
