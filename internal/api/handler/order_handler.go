package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/portesillo/tracking-service/internal/api/metrics"
	"github.com/portesillo/tracking-service/internal/core/domain"
	"github.com/portesillo/tracking-service/internal/core/ports"
)

// OrderHandler handles HTTP requests for order creation and lookup.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /v1/orders.
//
// @Summary      Create a new order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order details"
// @Success      201   {object}  orderResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	customerID := userID
	if role == domain.RoleAdmin {
		if req.CustomerID == "" {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "customerId is required")
		}
		customerID = req.CustomerID
	}

	order, err := h.service.Create(c.Request().Context(), toCreateOrderInput(req, customerID))
	if err != nil {
		return observe("create", err)
	}

	metrics.OrdersCreatedTotal.WithLabelValues(order.VehicleType).Inc()
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get handles GET /v1/orders/:id.
//
// @Summary      Get an order by id
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return observe("get", err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// ListMine handles GET /v1/orders.
//
// @Summary      List the caller's orders
// @Description  Customers get their own orders, drivers the ones assigned to them, admins all orders.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum number of orders (default 50, max 200)"
// @Success      200    {object}  orderListResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/orders [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var limit int
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
	}

	orders, err := h.service.ListMine(c.Request().Context(), ports.ListOrdersInput{
		Role:   role,
		UserID: userID,
		Limit:  limit,
	})
	if err != nil {
		return observe("list", err)
	}
	return c.JSON(http.StatusOK, toOrderListResponse(orders))
}

// ListActive handles GET /v1/orders/active.
//
// @Summary      List orders being tracked
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  orderListResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/orders/active [get]
func (h *OrderHandler) ListActive(c echo.Context) error {
	orders, err := h.service.ListActive(c.Request().Context())
	if err != nil {
		return observe("list_active", err)
	}
	return c.JSON(http.StatusOK, toOrderListResponse(orders))
}
