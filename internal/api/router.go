package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/portesillo/tracking-service/docs"
	"github.com/portesillo/tracking-service/internal/api/handler"
	"github.com/portesillo/tracking-service/internal/api/middleware"
	"github.com/portesillo/tracking-service/internal/core/domain"
	"github.com/portesillo/tracking-service/internal/core/ports"
	"github.com/portesillo/tracking-service/internal/realtime"
)

// RouterDeps groups everything the HTTP surface needs.
type RouterDeps struct {
	DB        *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Orders    ports.OrderService
	Tracking  ports.TrackingService
	Gateway   *realtime.Gateway
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("tracking_http"))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Identity ---
	identity := middleware.DevIdentity()
	if deps.JWTSecret != "" {
		identity = middleware.Auth(deps.JWTSecret)
	}

	orders := handler.NewOrderHandler(deps.Orders)
	tracking := handler.NewTrackingHandler(deps.Tracking)

	drivers := middleware.RBAC(domain.RoleDriver, domain.RoleAdmin)
	driverOnly := middleware.RBAC(domain.RoleDriver)

	// --- Orders ---
	v1 := e.Group("/v1", identity)
	v1.POST("/orders", orders.Create, middleware.RBAC(domain.RoleCustomer, domain.RoleAdmin))
	v1.GET("/orders", orders.ListMine)
	v1.GET("/orders/active", orders.ListActive, drivers)
	v1.GET("/orders/stats/tracking", tracking.Stats, middleware.RBAC(domain.RoleAdmin))
	v1.GET("/orders/:id", orders.Get)
	v1.GET("/orders/:id/tracking", tracking.Snapshot)

	// --- Tracking ---
	v1.PUT("/orders/:id/status", tracking.UpdateStatus, drivers)
	v1.PUT("/orders/:id/assign-driver", tracking.AssignDriver, drivers)
	v1.PUT("/orders/:id/location", tracking.UpdateLocation, driverOnly)
	v1.POST("/orders/:id/arrival", tracking.NotifyArrival, driverOnly)

	// --- Realtime ---
	if deps.Gateway != nil {
		e.GET("/tracking", deps.Gateway.Serve, identity)
	}

	return e
}
