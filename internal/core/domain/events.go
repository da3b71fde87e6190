package domain

// Names of the events exchanged on the tracking channel.
const (
	EventJoinOrder             = "join-order"
	EventLeaveOrder            = "leave-order"
	EventDriverLocationUpdate  = "driver-location-update"
	EventRequestDriverLocation = "request-driver-location"

	EventUserJoined        = "user-joined"
	EventDriverLocation    = "driver-location"
	EventOrderStatusUpdate = "order-status-update"
	EventOrderUpdate       = "order-update"
	EventDriverArrived     = "driver-arrived"
	EventEstimatedArrival  = "estimated-arrival"
	EventLocationRequested = "location-requested"
)
