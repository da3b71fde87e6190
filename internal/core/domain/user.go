package domain

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleDriver   = "driver"
)

// PartySummary is the read-only view of a customer or driver embedded in
// tracking snapshots.
type PartySummary struct {
	ID          string  `json:"id" bson:"_id"`
	Name        string  `json:"name" bson:"name"`
	Phone       string  `json:"phone,omitempty" bson:"phone,omitempty"`
	Email       string  `json:"email,omitempty" bson:"email,omitempty"`
	AvatarURL   string  `json:"avatar,omitempty" bson:"avatar,omitempty"`
	VehicleType string  `json:"vehicleType,omitempty" bson:"vehicle_type,omitempty"`
	PlateNumber string  `json:"plateNumber,omitempty" bson:"plate_number,omitempty"`
	Rating      float64 `json:"rating,omitempty" bson:"rating,omitempty"`
	PushToken   string  `json:"-" bson:"push_token,omitempty"`
}
