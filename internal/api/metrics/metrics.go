// Package metrics defines and registers all custom Prometheus metrics for the
// order tracking service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import via
// promauto and exposed by the echoprometheus handler mounted on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tracking"

// ── Status machine ────────────────────────────────────────────────────────────

// StatusTransitionsTotal counts transitions that were persisted.
// Label:
//   - status: the status entered (e.g. "driver_on_way")
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of order status transitions applied.",
	},
	[]string{"status"},
)

// RequestErrorsTotal counts rejected tracking operations.
// Labels:
//   - operation: "status", "location", "arrival", ...
//   - reason: "not_found", "invalid_transition", "invalid_state", "malformed", "stale", "conflict", "internal"
var RequestErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_errors_total",
		Help:      "Total number of tracking operations that failed, by reason.",
	},
	[]string{"operation", "reason"},
)

// IdempotentReplaysTotal counts status updates skipped because their key was already seen.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of status updates answered from the dedup store.",
	},
)

// ── Location tracker ──────────────────────────────────────────────────────────

// LocationUpdatesTotal counts accepted driver location reports.
// Label:
//   - source: "http" or "socket"
var LocationUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "location_updates_total",
		Help:      "Total number of driver location updates applied.",
	},
	[]string{"source"},
)

// ETAMinutes observes the arrival estimates produced by location updates.
var ETAMinutes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "eta_minutes",
		Help:      "Distribution of computed estimated-arrival minutes.",
		Buckets:   []float64{1, 2, 5, 10, 15, 20, 30, 45, 60, 90, 120},
	},
)

// ── Broadcast hub ─────────────────────────────────────────────────────────────

// BroadcastsTotal counts events fanned out to rooms.
// Label:
//   - event: outbound event name (e.g. "driver-location")
var BroadcastsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcasts_total",
		Help:      "Total number of events broadcast to order rooms.",
	},
	[]string{"event"},
)

// DroppedMessagesTotal counts per-subscriber sends dropped because the
// subscriber's buffer was full or its connection was closing.
var DroppedMessagesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dropped_messages_total",
		Help:      "Total number of messages dropped for slow or closed subscribers.",
	},
)

// ActiveRooms tracks the number of rooms with at least one member.
var ActiveRooms = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_rooms",
		Help:      "Current number of order rooms with at least one subscriber.",
	},
)

// ActiveConnections tracks open tracking sockets.
var ActiveConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_connections",
		Help:      "Current number of open tracking socket connections.",
	},
)

// RelayErrorsTotal counts cross-instance relay failures.
// Label:
//   - op: "publish" or "receive"
var RelayErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "relay_errors_total",
		Help:      "Total number of cross-instance relay failures.",
	},
	[]string{"op"},
)

// ── Serialization and notifications ───────────────────────────────────────────

// SerializerQueueDepth tracks the number of pending tasks per shard.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var SerializerQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "serializer_queue_depth",
		Help:      "Current number of order mutations pending in each serializer shard.",
	},
	[]string{"worker_id"},
)

// NotificationsTotal counts notification hand-offs.
// Labels:
//   - sink: "outbox", "mongo", "kafka"
//   - result: "ok", "error", "dropped"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications handled, by sink and result.",
	},
	[]string{"sink", "result"},
)

// ── Orders ────────────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts newly created orders.
// Label:
//   - vehicle_type: the requested vehicle tag
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created, by vehicle type.",
	},
	[]string{"vehicle_type"},
)

// ActiveOrders is refreshed periodically from the store.
var ActiveOrders = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_orders",
		Help:      "Number of orders in an active tracking leg, refreshed on a schedule.",
	},
)
