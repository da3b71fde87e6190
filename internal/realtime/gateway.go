package realtime

import (
	"context"
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/portesillo/tracking-service/internal/api/metrics"
	"github.com/portesillo/tracking-service/internal/api/middleware"
	"github.com/portesillo/tracking-service/internal/core/domain"
	"github.com/portesillo/tracking-service/internal/core/ports"
)

const handleTimeout = 5 * time.Second

// ackable lists the sentinel errors whose text is safe to return to a socket peer.
var ackable = []error{
	domain.ErrOrderNotFound,
	domain.ErrInvalidTransition,
	domain.ErrInvalidState,
	domain.ErrStaleLocation,
	domain.ErrConflict,
	domain.ErrForbidden,
}

// Gateway upgrades HTTP requests to tracking sockets and routes their
// inbound events to the hub and the tracking service.
type Gateway struct {
	hub      *Hub
	tracking ports.TrackingService
	validate echo.Validator
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewGateway(hub *Hub, tracking ports.TrackingService, validate echo.Validator, log zerolog.Logger) *Gateway {
	return &Gateway{
		hub:      hub,
		tracking: tracking,
		validate: validate,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log: log.With().Str("component", "gateway").Logger(),
	}
}

// Serve godoc
// @Summary      Open a tracking socket
// @Description  Upgrades to a websocket carrying join-order, leave-order, driver-location-update and request-driver-location events.
// @Tags         tracking
// @Param        access_token  query  string  false  "JWT when the Authorization header cannot be set"
// @Success      101
// @Failure      401  {object}  map[string]string
// @Router       /tracking [get]
func (g *Gateway) Serve(c echo.Context) error {
	conn, err := g.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		g.log.Debug().Err(err).Msg("upgrade failed")
		return nil
	}

	role, _ := c.Get(middleware.CtxRole).(string)
	userID, _ := c.Get(middleware.CtxUserID).(string)
	client := newClient(conn, role, userID, g.log)

	metrics.ActiveConnections.Inc()
	client.log.Info().Str("role", role).Str("user_id", userID).Msg("socket connected")

	go client.writePump()
	client.readPump(g.handle)

	left := g.hub.Disconnect(client.ID())
	metrics.ActiveConnections.Dec()
	client.log.Info().Int("rooms_left", len(left)).Msg("socket disconnected")
	return nil
}

func (g *Gateway) handle(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		g.ack(c, "", ackPayload{Error: "malformed frame"})
		return
	}

	switch env.Event {
	case domain.EventJoinOrder:
		g.joinOrder(c, env)
	case domain.EventLeaveOrder:
		g.leaveOrder(c, env)
	case domain.EventDriverLocationUpdate:
		g.driverLocation(c, env)
	case domain.EventRequestDriverLocation:
		g.requestLocation(c, env)
	default:
		g.ack(c, env.ID, ackPayload{Error: "unknown event " + env.Event})
	}
}

func (g *Gateway) joinOrder(c *Client, env Envelope) {
	var msg joinOrderMessage
	if err := g.decode(env.Data, &msg); err != nil {
		g.ack(c, env.ID, ackPayload{Error: err.Error()})
		return
	}
	userType := msg.UserType
	if userType == "" {
		userType = c.role
	}
	g.hub.Join(msg.OrderID, c, userType)
	g.ack(c, env.ID, ackPayload{Success: true, OrderID: msg.OrderID})
}

func (g *Gateway) leaveOrder(c *Client, env Envelope) {
	var ref orderRef
	if err := g.decode(env.Data, &ref); err != nil {
		g.ack(c, env.ID, ackPayload{Error: err.Error()})
		return
	}
	g.hub.Leave(ref.OrderID, c.ID())
	g.ack(c, env.ID, ackPayload{Success: true, OrderID: ref.OrderID})
}

func (g *Gateway) driverLocation(c *Client, env Envelope) {
	switch c.role {
	case "", domain.RoleDriver, domain.RoleAdmin:
	default:
		g.ack(c, env.ID, ackPayload{Error: domain.ErrForbidden.Error()})
		return
	}

	var msg driverLocationMessage
	if err := g.decode(env.Data, &msg); err != nil {
		g.ack(c, env.ID, ackPayload{Error: err.Error()})
		return
	}
	if msg.Location == nil || msg.Location.Latitude == nil || msg.Location.Longitude == nil {
		g.ack(c, env.ID, ackPayload{Error: "location is required", OrderID: msg.OrderID})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	res, err := g.tracking.UpdateLocation(ctx, ports.UpdateLocationInput{
		OrderID:    msg.OrderID,
		Latitude:   *msg.Location.Latitude,
		Longitude:  *msg.Location.Longitude,
		Heading:    msg.Heading,
		Speed:      msg.Speed,
		RecordedAt: msg.RecordedAt,
	})
	if err != nil {
		c.log.Debug().Err(err).Str("order_id", msg.OrderID).Msg("location update rejected")
		g.ack(c, env.ID, ackPayload{Error: ackError(err), OrderID: msg.OrderID})
		return
	}
	metrics.LocationUpdatesTotal.WithLabelValues("socket").Inc()
	if res.ETAMinutes != nil {
		metrics.ETAMinutes.Observe(float64(*res.ETAMinutes))
	}

	if !g.hub.IsMember(msg.OrderID, c.ID()) {
		g.hub.EchoLocation(c, msg.OrderID, res.Location)
	}
	g.ack(c, env.ID, ackPayload{Success: true, OrderID: msg.OrderID})
}

func (g *Gateway) requestLocation(c *Client, env Envelope) {
	var ref orderRef
	if err := g.decode(env.Data, &ref); err != nil {
		g.ack(c, env.ID, ackPayload{Error: err.Error()})
		return
	}
	requestedBy := c.userID
	if requestedBy == "" {
		requestedBy = c.ID()
	}
	g.hub.RequestLocation(ref.OrderID, requestedBy)
	g.ack(c, env.ID, ackPayload{Success: true, OrderID: ref.OrderID})
}

func (g *Gateway) decode(data json.RawMessage, dst any) error {
	if len(data) == 0 {
		return errors.New("missing data")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return errors.New("malformed data")
	}
	if g.validate != nil {
		if err := g.validate.Validate(dst); err != nil {
			return err
		}
	}
	return nil
}

func (g *Gateway) ack(c *Client, id string, p ackPayload) {
	frame, err := encodeFrame(eventAck, id, p)
	if err != nil {
		c.log.Error().Err(err).Msg("encode ack")
		return
	}
	if !c.Send(frame) {
		metrics.DroppedMessagesTotal.Inc()
	}
}

func ackError(err error) string {
	for _, target := range ackable {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	if errors.Is(err, domain.ErrMalformedInput) {
		return err.Error()
	}
	return "internal error"
}
