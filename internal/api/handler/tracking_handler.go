package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portesillo/tracking-service/internal/api/metrics"
	"github.com/portesillo/tracking-service/internal/core/domain"
	"github.com/portesillo/tracking-service/internal/core/ports"
)

// TrackingHandler exposes the status machine and location tracker over HTTP.
type TrackingHandler struct {
	service ports.TrackingService
}

func NewTrackingHandler(service ports.TrackingService) *TrackingHandler {
	return &TrackingHandler{service: service}
}

// UpdateStatus handles PUT /v1/orders/:id/status.
//
// @Summary      Change an order's status
// @Description  Applies one transition of the order status machine. A repeated Idempotency-Key for the same status returns the current order without re-applying it.
// @Tags         tracking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      string               true   "Order id"
// @Param        Idempotency-Key  header    string               false  "Idempotency key to make retries safe"
// @Param        body             body      updateStatusRequest  true   "Target status"
// @Success      200              {object}  orderResponse
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/orders/{id}/status [put]
func (h *TrackingHandler) UpdateStatus(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	// a driver accepting an order takes it for themselves
	driverID := req.DriverID
	if role == domain.RoleDriver && driverID == "" && domain.OrderStatus(req.Status) == domain.StatusAccepted {
		driverID = userID
	}

	order, err := h.service.UpdateStatus(c.Request().Context(), ports.UpdateStatusInput{
		OrderID:        c.Param("id"),
		Status:         req.Status,
		Reason:         req.Reason,
		DriverID:       driverID,
		Metadata:       req.Metadata,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return observe("status", err)
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(order.Status)).Inc()
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// AssignDriver handles PUT /v1/orders/:id/assign-driver.
//
// @Summary      Assign a driver to a pending order
// @Description  Drivers may omit driverId to assign themselves.
// @Tags         tracking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Order id"
// @Param        body  body      assignDriverRequest  true  "Driver"
// @Success      200   {object}  orderResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/orders/{id}/assign-driver [put]
func (h *TrackingHandler) AssignDriver(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req assignDriverRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.DriverID == "" && role == domain.RoleDriver {
		req.DriverID = userID
	}
	if req.DriverID == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "driverId is required")
	}

	order, err := h.service.AssignDriver(c.Request().Context(), ports.AssignDriverInput{
		OrderID:  c.Param("id"),
		DriverID: req.DriverID,
	})
	if err != nil {
		return observe("assign", err)
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(order.Status)).Inc()
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// UpdateLocation handles PUT /v1/orders/:id/location.
//
// @Summary      Report the driver's position
// @Description  Accepted only while the order is accepted, driver_on_way or in_progress. Recomputes the ETA to the current target.
// @Tags         tracking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Order id"
// @Param        body  body      updateLocationRequest  true  "Position"
// @Success      200   {object}  locationResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/orders/{id}/location [put]
func (h *TrackingHandler) UpdateLocation(c echo.Context) error {
	var req updateLocationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	in := ports.UpdateLocationInput{
		OrderID:    c.Param("id"),
		Heading:    req.Heading,
		Speed:      req.Speed,
		RecordedAt: req.RecordedAt,
	}
	if req.Latitude != nil {
		in.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		in.Longitude = *req.Longitude
	}

	res, err := h.service.UpdateLocation(c.Request().Context(), in)
	if err != nil {
		return observe("location", err)
	}

	metrics.LocationUpdatesTotal.WithLabelValues("http").Inc()
	if res.ETAMinutes != nil {
		metrics.ETAMinutes.Observe(float64(*res.ETAMinutes))
	}
	return c.JSON(http.StatusOK, locationResponse{
		OrderID:          in.OrderID,
		Location:         toDriverLocationResponse(res.Location),
		EstimatedMinutes: res.ETAMinutes,
	})
}

// NotifyArrival handles POST /v1/orders/:id/arrival.
//
// @Summary      Report arrival at pickup or delivery
// @Tags         tracking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Order id"
// @Param        body  body      arrivalRequest  true  "Arrival point"
// @Success      200   {object}  orderResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/orders/{id}/arrival [post]
func (h *TrackingHandler) NotifyArrival(c echo.Context) error {
	var req arrivalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	order, err := h.service.NotifyArrival(c.Request().Context(), ports.ArrivalInput{
		OrderID: c.Param("id"),
		Point:   req.Location,
	})
	if err != nil {
		return observe("arrival", err)
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(order.Status)).Inc()
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Snapshot handles GET /v1/orders/:id/tracking.
//
// @Summary      Current tracking view of an order
// @Tags         tracking
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  trackingResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/orders/{id}/tracking [get]
func (h *TrackingHandler) Snapshot(c echo.Context) error {
	snap, err := h.service.Snapshot(c.Request().Context(), c.Param("id"))
	if err != nil {
		return observe("snapshot", err)
	}
	return c.JSON(http.StatusOK, toTrackingResponse(snap))
}

// Stats handles GET /v1/orders/stats/tracking.
//
// @Summary      Tracking statistics
// @Tags         tracking
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statsResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/orders/stats/tracking [get]
func (h *TrackingHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return observe("stats", err)
	}
	return c.JSON(http.StatusOK, statsResponse{
		ActiveOrders: stats.ActiveOrders,
		ActiveRooms:  stats.ActiveRooms,
		Timestamp:    stats.Timestamp,
	})
}
