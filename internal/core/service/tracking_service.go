package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/portesillo/tracking-service/internal/core/domain"
	"github.com/portesillo/tracking-service/internal/core/ports"
)

const defaultConflictRetries = 3

// Serializer runs fn exclusively with respect to every other call sharing key.
type Serializer interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, orderID, status, key string) (bool, error)
	Mark(ctx context.Context, orderID, status, key string) error
}

// TrackingDeps groups the collaborators of the tracking service.
// Parties, Dispatcher, Serializer and Dedup are optional.
type TrackingDeps struct {
	Orders     ports.OrderRepository
	Parties    ports.PartyRepository
	Hub        ports.Broadcaster
	Dispatcher ports.NotificationDispatcher
	Serializer Serializer
	Dedup      DedupChecker
	// ConflictRetries bounds re-reads after a lost compare-and-set.
	ConflictRetries uint64
}

type trackingService struct {
	orders   ports.OrderRepository
	parties  ports.PartyRepository
	hub      ports.Broadcaster
	notify   *notifier
	serial   Serializer
	dedup    DedupChecker
	retries  uint64
	log      zerolog.Logger
	now      func() time.Time
	newRetry func() backoff.BackOff
}

// NewTrackingService returns a TrackingService implementation.
func NewTrackingService(deps TrackingDeps, log zerolog.Logger) ports.TrackingService {
	retries := deps.ConflictRetries
	if retries == 0 {
		retries = defaultConflictRetries
	}
	serial := deps.Serializer
	if serial == nil {
		serial = &mutexSerializer{}
	}
	return &trackingService{
		orders:   deps.Orders,
		parties:  deps.Parties,
		hub:      deps.Hub,
		notify:   newNotifier(deps.Dispatcher, log),
		serial:   serial,
		dedup:    deps.Dedup,
		retries:  retries,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		newRetry: conflictBackoff,
	}
}

func conflictBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond
	return b
}

// UpdateStatus validates and applies a status transition.
func (s *trackingService) UpdateStatus(ctx context.Context, in ports.UpdateStatusInput) (*domain.Order, error) {
	order, err := s.transition(ctx, in, nil)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return order, nil
}

// transition runs the idempotency check, the compare-and-set and the
// post-commit fan-out inside the order's serialization domain, so room
// members observe events in commit order. onCommit, if set, runs after the
// status broadcast of a committed transition.
func (s *trackingService) transition(ctx context.Context, in ports.UpdateStatusInput, onCommit func(o *domain.Order)) (*domain.Order, error) {
	if in.OrderID == "" {
		return nil, fmt.Errorf("%w: order id is required", domain.ErrMalformedInput)
	}
	target, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	meta := domain.TransitionMeta{Reason: in.Reason, DriverID: in.DriverID, Extra: in.Metadata}

	var order *domain.Order
	err = s.serial.Do(ctx, in.OrderID, func(ctx context.Context) error {
		// 1. Idempotency check: a replayed request returns the current order.
		if s.isReplay(ctx, in.OrderID, target, in.IdempotencyKey) {
			o, err := s.orders.FindByID(ctx, in.OrderID)
			if err != nil {
				return err
			}
			order = o
			return nil
		}

		// 2. Validate and persist.
		o, err := s.commit(ctx, in.OrderID, func(o *domain.Order) error {
			return o.ApplyTransition(target, meta, s.now())
		})
		if err != nil {
			return err
		}
		s.markApplied(ctx, in.OrderID, target, in.IdempotencyKey)

		// 3. Post-commit: fan out, then notify.
		s.afterTransition(ctx, o, target, meta)
		if onCommit != nil {
			onCommit(o)
		}

		s.log.Info().
			Str("order_id", o.ID).
			Str("status", string(target)).
			Msg("order status updated")

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *trackingService) isReplay(ctx context.Context, orderID string, status domain.OrderStatus, key string) bool {
	if key == "" || s.dedup == nil {
		return false
	}
	isDup, err := s.dedup.IsDuplicate(ctx, orderID, string(status), key)
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", orderID).Msg("dedup check failed, processing anyway")
		return false
	}
	if isDup {
		s.log.Debug().Str("order_id", orderID).Str("status", string(status)).Msg("duplicate status update skipped")
	}
	return isDup
}

func (s *trackingService) markApplied(ctx context.Context, orderID string, status domain.OrderStatus, key string) {
	if key == "" || s.dedup == nil {
		return
	}
	if err := s.dedup.Mark(ctx, orderID, string(status), key); err != nil {
		s.log.Warn().Err(err).Str("order_id", orderID).Msg("failed to set dedup key")
	}
}

// AssignDriver is the pending -> accepted transition carrying the driver id.
func (s *trackingService) AssignDriver(ctx context.Context, in ports.AssignDriverInput) (*domain.Order, error) {
	if in.DriverID == "" {
		return nil, fmt.Errorf("assign driver: %w: driver id is required", domain.ErrMalformedInput)
	}
	return s.UpdateStatus(ctx, ports.UpdateStatusInput{
		OrderID:  in.OrderID,
		Status:   string(domain.StatusAccepted),
		DriverID: in.DriverID,
	})
}

// UpdateLocation stores the driver's latest position and recomputes the ETA.
func (s *trackingService) UpdateLocation(ctx context.Context, in ports.UpdateLocationInput) (*ports.LocationResult, error) {
	if in.OrderID == "" {
		return nil, fmt.Errorf("update location: %w: order id is required", domain.ErrMalformedInput)
	}
	loc := domain.DriverLocation{
		Coordinates: domain.Coordinates{Latitude: in.Latitude, Longitude: in.Longitude},
		Heading:     in.Heading,
		Speed:       in.Speed,
		RecordedAt:  in.RecordedAt,
	}
	if err := loc.Validate(); err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}

	var result *ports.LocationResult
	err := s.serial.Do(ctx, in.OrderID, func(ctx context.Context) error {
		order, err := s.commit(ctx, in.OrderID, func(o *domain.Order) error {
			if err := o.ApplyLocation(loc, s.now()); err != nil {
				return err
			}
			if target, ok := o.ETATarget(); ok {
				minutes := EstimateMinutes(Haversine(loc.Coordinates, target))
				o.EstimatedArrivalMinutes = &minutes
			}
			return nil
		})
		if err != nil {
			return err
		}

		current := *order.CurrentDriverLocation
		result = &ports.LocationResult{Location: current}

		s.hub.BroadcastLocation(order.ID, current)
		if _, ok := order.ETATarget(); ok && order.EstimatedArrivalMinutes != nil {
			eta := *order.EstimatedArrivalMinutes
			result.ETAMinutes = &eta
			s.hub.BroadcastETA(order.ID, eta)
		}

		s.log.Debug().
			Str("order_id", order.ID).
			Float64("lat", current.Latitude).
			Float64("lng", current.Longitude).
			Msg("driver location updated")
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}
	return result, nil
}

// NotifyArrival moves the order to the matching arrived_* status and tells the room.
func (s *trackingService) NotifyArrival(ctx context.Context, in ports.ArrivalInput) (*domain.Order, error) {
	point := domain.ArrivalPoint(in.Point)
	status, err := point.Status()
	if err != nil {
		return nil, fmt.Errorf("notify arrival: %w", err)
	}

	order, err := s.transition(ctx, ports.UpdateStatusInput{OrderID: in.OrderID, Status: string(status)}, func(o *domain.Order) {
		s.hub.BroadcastArrival(o.ID, point)
	})
	if err != nil {
		return nil, fmt.Errorf("notify arrival: %w", err)
	}
	return order, nil
}

// Snapshot returns the tracking view of an order with party summaries.
// Missing or failing party lookups are omitted from the result.
func (s *trackingService) Snapshot(ctx context.Context, orderID string) (*ports.TrackingSnapshot, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("tracking snapshot: %w", err)
	}

	snap := &ports.TrackingSnapshot{
		OrderID:                 o.ID,
		Status:                  o.Status,
		CurrentDriverLocation:   o.CurrentDriverLocation,
		PickupCoords:            o.PickupCoords,
		DeliveryCoords:          o.DeliveryCoords,
		Route:                   o.Route,
		DistanceKm:              o.DistanceKm,
		EstimatedArrivalMinutes: o.EstimatedArrivalMinutes,
		Timestamps:              o.Timestamps,
		CreatedAt:               o.CreatedAt,
	}

	if s.parties == nil {
		return snap, nil
	}
	if o.CustomerID != "" {
		if p, err := s.parties.FindCustomer(ctx, o.CustomerID); err != nil {
			s.log.Warn().Err(err).Str("order_id", o.ID).Msg("customer summary unavailable")
		} else {
			snap.Customer = p
		}
	}
	if o.DriverID != "" {
		if p, err := s.parties.FindDriver(ctx, o.DriverID); err != nil {
			s.log.Warn().Err(err).Str("order_id", o.ID).Msg("driver summary unavailable")
		} else {
			snap.Driver = p
		}
	}
	return snap, nil
}

// Stats reports the number of orders being tracked and the number of live rooms.
func (s *trackingService) Stats(ctx context.Context) (*ports.TrackingStats, error) {
	active, err := s.orders.CountByStatuses(ctx, domain.TrackingStatuses())
	if err != nil {
		return nil, fmt.Errorf("tracking stats: %w", err)
	}
	return &ports.TrackingStats{
		ActiveOrders: active,
		ActiveRooms:  s.hub.RoomCount(),
		Timestamp:    s.now(),
	}, nil
}

// commit loads the order, applies fn and stores the result with a
// compare-and-set on the version read. A lost race re-reads and re-applies
// fn against the fresh state; validation failures are never retried.
// Callers hold the order's serialization domain.
func (s *trackingService) commit(ctx context.Context, orderID string, fn func(o *domain.Order) error) (*domain.Order, error) {
	var result *domain.Order
	op := func() error {
		o, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return backoff.Permanent(err)
		}
		expected := o.Version
		if err := fn(o); err != nil {
			return backoff.Permanent(err)
		}
		if err := s.orders.Update(ctx, o, expected); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				s.log.Debug().Str("order_id", orderID).Int64("version", expected).Msg("version conflict, retrying")
				return err
			}
			return backoff.Permanent(err)
		}
		result = o
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(s.newRetry(), s.retries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *trackingService) afterTransition(ctx context.Context, o *domain.Order, status domain.OrderStatus, meta domain.TransitionMeta) {
	metadata := make(map[string]any, len(meta.Extra)+2)
	for k, v := range meta.Extra {
		metadata[k] = v
	}
	if status == domain.StatusCancelled && o.CancellationReason != "" {
		metadata["reason"] = o.CancellationReason
	}

	assigned := status == domain.StatusAccepted && meta.DriverID != ""
	if assigned {
		metadata["driverId"] = o.DriverID
	}

	s.hub.BroadcastStatus(o.ID, status, metadata)
	if assigned {
		s.hub.BroadcastOrderUpdate(o.ID, map[string]any{
			"driverId": o.DriverID,
			"status":   string(o.Status),
		})
		s.notify.driverAssigned(ctx, o)
		return
	}
	s.notify.statusChanged(ctx, o, status)
}

// mutexSerializer runs every call under one lock. Used when no dispatcher
// is configured.
type mutexSerializer struct {
	mu sync.Mutex
}

func (m *mutexSerializer) Do(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}
