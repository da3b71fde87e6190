package handler

import (
	"github.com/portesillo/tracking-service/internal/core/domain"
	"github.com/portesillo/tracking-service/internal/core/ports"
)

func toCoordinates(r coordinatesRequest) domain.Coordinates {
	var c domain.Coordinates
	if r.Latitude != nil {
		c.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		c.Longitude = *r.Longitude
	}
	return c
}

// toCreateOrderInput maps the HTTP request to the service DTO.
func toCreateOrderInput(r createOrderRequest, customerID string) ports.CreateOrderInput {
	in := ports.CreateOrderInput{
		CustomerID:      customerID,
		PickupAddress:   r.PickupAddress,
		PickupCoords:    toCoordinates(r.PickupCoords),
		DeliveryAddress: r.DeliveryAddress,
		DeliveryCoords:  toCoordinates(r.DeliveryCoords),
		VehicleType:     r.VehicleType,
		Price:           r.Price,
		DistanceKm:      r.Distance,
		Notes:           r.Notes,
		Photos:          r.Photos,
		ScheduledAt:     r.ScheduledAt,
	}
	for _, c := range r.RouteCoords {
		in.Route = append(in.Route, toCoordinates(c))
	}
	return in
}

func toCoordinatesResponse(c domain.Coordinates) coordinatesResponse {
	return coordinatesResponse{Latitude: c.Latitude, Longitude: c.Longitude}
}

func toRouteResponse(route []domain.Coordinates) []coordinatesResponse {
	if len(route) == 0 {
		return nil
	}
	out := make([]coordinatesResponse, len(route))
	for i, c := range route {
		out[i] = toCoordinatesResponse(c)
	}
	return out
}

func toDriverLocationResponse(l domain.DriverLocation) driverLocationResponse {
	return driverLocationResponse{
		Latitude:   l.Latitude,
		Longitude:  l.Longitude,
		Heading:    l.Heading,
		Speed:      l.Speed,
		RecordedAt: l.RecordedAt,
		Timestamp:  l.Timestamp,
	}
}

func toOptionalLocation(l *domain.DriverLocation) *driverLocationResponse {
	if l == nil {
		return nil
	}
	r := toDriverLocationResponse(*l)
	return &r
}

func toTimestampsResponse(t domain.Timestamps) timestampsResponse {
	return timestampsResponse{
		AcceptedAt:        t.AcceptedAt,
		DriverOnWayAt:     t.DriverOnWayAt,
		ArrivedPickupAt:   t.ArrivedPickupAt,
		StartedAt:         t.StartedAt,
		ArrivedDeliveryAt: t.ArrivedDeliveryAt,
		CompletedAt:       t.CompletedAt,
		CancelledAt:       t.CancelledAt,
	}
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:                      o.ID,
		CustomerID:              o.CustomerID,
		DriverID:                o.DriverID,
		PickupAddress:           o.PickupAddress,
		PickupCoords:            toCoordinatesResponse(o.PickupCoords),
		DeliveryAddress:         o.DeliveryAddress,
		DeliveryCoords:          toCoordinatesResponse(o.DeliveryCoords),
		RouteCoords:             toRouteResponse(o.Route),
		VehicleType:             o.VehicleType,
		Price:                   o.Price,
		Distance:                o.DistanceKm,
		Status:                  string(o.Status),
		CurrentDriverLocation:   toOptionalLocation(o.CurrentDriverLocation),
		EstimatedArrivalMinutes: o.EstimatedArrivalMinutes,
		Timestamps:              toTimestampsResponse(o.Timestamps),
		CancellationReason:      o.CancellationReason,
		Notes:                   o.Notes,
		Photos:                  o.Photos,
		ScheduledAt:             o.ScheduledAt,
		CreatedAt:               o.CreatedAt,
		UpdatedAt:               o.UpdatedAt,
	}
}

func toOrderListResponse(orders []*domain.Order) orderListResponse {
	resp := orderListResponse{Orders: make([]orderResponse, 0, len(orders)), Count: len(orders)}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(o))
	}
	return resp
}

func toPartyResponse(p *domain.PartySummary) *partyResponse {
	if p == nil {
		return nil
	}
	return &partyResponse{
		ID:          p.ID,
		Name:        p.Name,
		Phone:       p.Phone,
		Email:       p.Email,
		Avatar:      p.AvatarURL,
		VehicleType: p.VehicleType,
		PlateNumber: p.PlateNumber,
		Rating:      p.Rating,
	}
}

func toTrackingResponse(s *ports.TrackingSnapshot) trackingResponse {
	return trackingResponse{
		OrderID:                 s.OrderID,
		Status:                  string(s.Status),
		CurrentDriverLocation:   toOptionalLocation(s.CurrentDriverLocation),
		PickupCoords:            toCoordinatesResponse(s.PickupCoords),
		DeliveryCoords:          toCoordinatesResponse(s.DeliveryCoords),
		RouteCoords:             toRouteResponse(s.Route),
		Distance:                s.DistanceKm,
		EstimatedArrivalMinutes: s.EstimatedArrivalMinutes,
		Timestamps:              toTimestampsResponse(s.Timestamps),
		CreatedAt:               s.CreatedAt,
		Customer:                toPartyResponse(s.Customer),
		Driver:                  toPartyResponse(s.Driver),
	}
}
