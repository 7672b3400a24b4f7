// Package maintenance runs background housekeeping jobs.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/recipes-be/internal/services"
	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// pruneTimeout bounds a single prune run.
const pruneTimeout = 30 * time.Second

// EventPruner periodically deletes activity events older than the retention
// window.
type EventPruner struct {
	events    services.EventServiceProvider
	retention time.Duration
	clock     clockwork.Clock
	cron      *cron.Cron
}

// NewEventPruner creates a pruner that runs on the given cron schedule
// (standard five-field syntax or descriptors such as "@every 1h").
func NewEventPruner(events services.EventServiceProvider, retention time.Duration, schedule string, clock clockwork.Clock) (*EventPruner, error) {
	if retention <= 0 {
		return nil, fmt.Errorf("event retention must be positive, got %s", retention)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	c := cron.New(
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})),
	)
	p := &EventPruner{
		events:    events,
		retention: retention,
		clock:     clock,
		cron:      c,
	}
	if _, err := p.cron.AddFunc(schedule, p.run); err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}
	return p, nil
}

// Start runs the cron scheduler in the background.
func (p *EventPruner) Start() {
	log.Info().Dur("retention", p.retention).Msg("Starting event pruner...")
	p.cron.Start()
}

// Stop halts the scheduler and waits for a running prune to finish or ctx to
// expire.
func (p *EventPruner) Stop(ctx context.Context) {
	done := p.cron.Stop().Done()
	select {
	case <-done:
		log.Info().Msg("Stopped event pruner.")
	case <-ctx.Done():
		log.Warn().Msg("Event pruner did not stop in time")
	}
}

// Prune deletes every event created before now minus the retention window.
func (p *EventPruner) Prune(ctx context.Context) (int64, error) {
	cutoff := p.clock.Now().Add(-p.retention)
	n, err := p.events.PruneEvents(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune events: %w", err)
	}
	return n, nil
}

func (p *EventPruner) run() {
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	defer cancel()

	n, err := p.Prune(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Event pruner run failed")
		return
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Msg("Pruned old events")
	}
}

// cronLogger routes cron's own logging through zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
