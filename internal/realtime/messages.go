package realtime

import (
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// eventAck is the reply sent for every inbound frame.
const eventAck = "ack"

// Envelope is the frame exchanged on the tracking socket in both directions.
type Envelope struct {
	Event string          `json:"event"`
	ID    string          `json:"id,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outboundFrame struct {
	Event string `json:"event"`
	ID    string `json:"id,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func encodeFrame(event, id string, data any) ([]byte, error) {
	return json.Marshal(outboundFrame{Event: event, ID: id, Data: data})
}

// ── Inbound ───────────────────────────────────────────────────────────────────

type joinOrderMessage struct {
	OrderID  string `json:"orderId" validate:"required"`
	UserType string `json:"userType"`
}

type locationPoint struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type driverLocationMessage struct {
	OrderID    string         `json:"orderId" validate:"required"`
	Location   *locationPoint `json:"location" validate:"required"`
	Heading    *float64       `json:"heading" validate:"omitempty,gte=0,lt=360"`
	Speed      *float64       `json:"speed" validate:"omitempty,gte=0"`
	RecordedAt *time.Time     `json:"recordedAt"`
}

// orderRef accepts either a bare order id string or {"orderId": "..."}.
type orderRef struct {
	OrderID string `validate:"required"`
}

func (r *orderRef) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if strings.HasPrefix(trimmed, `"`) {
		return json.Unmarshal(b, &r.OrderID)
	}
	var obj struct {
		OrderID string `json:"orderId"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("order reference: %w", err)
	}
	r.OrderID = obj.OrderID
	return nil
}

// ── Outbound ──────────────────────────────────────────────────────────────────

type ackPayload struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	OrderID string `json:"orderId,omitempty"`
}

type userJoinedPayload struct {
	UserType  string    `json:"userType,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type coordinatesPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type driverLocationPayload struct {
	OrderID   string             `json:"orderId"`
	Location  coordinatesPayload `json:"location"`
	Heading   *float64           `json:"heading,omitempty"`
	Speed     *float64           `json:"speed,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

type statusPayload struct {
	OrderID   string         `json:"orderId"`
	Status    string         `json:"status"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type arrivalPayload struct {
	OrderID   string    `json:"orderId"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

type etaPayload struct {
	OrderID          string    `json:"orderId"`
	EstimatedMinutes int       `json:"estimatedMinutes"`
	Timestamp        time.Time `json:"timestamp"`
}

type locationRequestedPayload struct {
	OrderID     string    `json:"orderId"`
	RequestedBy string    `json:"requestedBy"`
	Timestamp   time.Time `json:"timestamp"`
}
