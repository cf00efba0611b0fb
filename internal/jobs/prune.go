package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Pruner deletes draft snapshots that have not been touched since a cutoff.
type Pruner interface {
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
}

// Scheduler runs periodic housekeeping.
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

func NewScheduler(logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger.With().Str("service", "Scheduler").Logger(),
	}
}

// PruneDrafts returns the job that removes snapshots older than retention.
func PruneDrafts(p Pruner, retention time.Duration, now func() time.Time, logger zerolog.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		cutoff := now().Add(-retention)
		n, err := p.Prune(ctx, cutoff)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to prune stale drafts")
			return
		}
		logger.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("Pruned stale drafts")
	}
}

// SchedulePrune registers the draft prune job under spec, a cron expression
// or descriptor such as "@every 6h".
func (s *Scheduler) SchedulePrune(spec string, p Pruner, retention time.Duration) error {
	if _, err := s.cron.AddFunc(spec, PruneDrafts(p, retention, time.Now, s.logger)); err != nil {
		return fmt.Errorf("failed to schedule draft pruning: %w", err)
	}
	s.logger.Info().Str("schedule", spec).Dur("retention", retention).Msg("Draft pruning scheduled")
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
