// Package scheduler runs the daily report job on a cron schedule in the
// business time zone.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler owns the cron runner. It holds exactly one entry: the daily
// report job.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// New builds a scheduler that fires fn on the given cron expression,
// evaluated in loc. The job function receives a fresh context per run;
// errors never escape it, so a failed run does not stop the schedule.
func New(schedule string, loc *time.Location, logger *zap.Logger, fn func(context.Context)) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddFunc(schedule, func() {
		logger.Info("scheduled run starting", zap.String("schedule", schedule))
		fn(context.Background())
	})
	if err != nil {
		return nil, err
	}
	return &Scheduler{cron: c, logger: logger}, nil
}

// Start begins the schedule in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	entries := s.cron.Entries()
	if len(entries) > 0 {
		s.logger.Info("scheduler started", zap.Time("next_run", entries[0].Next))
	}
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
