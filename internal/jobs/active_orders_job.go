package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/portesillo/tracking-service/internal/api/metrics"
	"github.com/portesillo/tracking-service/internal/core/ports"
)

const (
	DefaultActiveOrdersSchedule = "@every 30s"
	refreshTimeout              = 10 * time.Second
)

// StatsSource is the part of the tracking service the job reads.
type StatsSource interface {
	Stats(ctx context.Context) (*ports.TrackingStats, error)
}

// ActiveOrdersJob refreshes the active orders and rooms gauges on a schedule.
type ActiveOrdersJob struct {
	stats    StatsSource
	schedule string
	cron     *cron.Cron
	log      zerolog.Logger
}

// NewActiveOrdersJob accepts six-field cron expressions or descriptors such
// as "@every 30s". An empty schedule uses DefaultActiveOrdersSchedule.
func NewActiveOrdersJob(stats StatsSource, schedule string, log zerolog.Logger) *ActiveOrdersJob {
	if schedule == "" {
		schedule = DefaultActiveOrdersSchedule
	}
	return &ActiveOrdersJob{
		stats:    stats,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		log:      log.With().Str("component", "active_orders_job").Logger(),
	}
}

// Start registers the refresh and starts the scheduler.
func (j *ActiveOrdersJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.log.Info().Str("schedule", j.schedule).Msg("active orders job started")
	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (j *ActiveOrdersJob) Stop() {
	<-j.cron.Stop().Done()
	j.log.Info().Msg("active orders job stopped")
}

// Run performs a single refresh.
func (j *ActiveOrdersJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	s, err := j.stats.Stats(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("active orders refresh failed")
		return
	}
	metrics.ActiveOrders.Set(float64(s.ActiveOrders))
	metrics.ActiveRooms.Set(float64(s.ActiveRooms))
	j.log.Debug().Int64("active_orders", s.ActiveOrders).Int("active_rooms", s.ActiveRooms).Msg("gauges refreshed")
}
