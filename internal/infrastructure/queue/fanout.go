package queue

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/portesillo/tracking-service/internal/api/metrics"
	"github.com/portesillo/tracking-service/internal/core/domain"
	"github.com/portesillo/tracking-service/internal/core/ports"
)

// Sink is a named notification destination.
type Sink struct {
	Name       string
	Dispatcher ports.NotificationDispatcher
}

// Fanout delivers each notification to every sink. One failing sink does
// not stop the others; the combined error is returned.
type Fanout struct {
	sinks []Sink
}

func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Dispatch(ctx context.Context, n domain.Notification) error {
	var result *multierror.Error
	for _, s := range f.sinks {
		if err := s.Dispatcher.Dispatch(ctx, n); err != nil {
			metrics.NotificationsTotal.WithLabelValues(s.Name, "error").Inc()
			result = multierror.Append(result, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		metrics.NotificationsTotal.WithLabelValues(s.Name, "ok").Inc()
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDispatchFailure, err)
	}
	return nil
}
