package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type Job interface {
	Run(ctx context.Context) error
}

type JobFunc func(ctx context.Context) error

func (f JobFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Scheduler runs a job, waits for the interval and runs it again. Cycles
// never overlap and a failed cycle does not change the cadence.
type Scheduler struct {
	log      zerolog.Logger
	interval func() time.Duration
}

// New creates a Scheduler. interval is read before every wait so a reloaded
// config applies from the next cycle on.
func New(log zerolog.Logger, interval func() time.Duration) *Scheduler {
	return &Scheduler{
		log:      log,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled. Job errors are logged and dropped.
func (s *Scheduler) Run(ctx context.Context, job Job) {
	for ctx.Err() == nil {
		start := time.Now()

		err := s.runJob(ctx, job)
		if err != nil {
			s.log.Error().Err(err).Msg("error in metrics collection cycle")
		}

		s.log.Debug().Dur("duration", time.Since(start)).Msg("collection cycle finished")

		if !s.wait(ctx) {
			return
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in collection cycle: %v", r)
		}
	}()
	return job.Run(ctx)
}

func (s *Scheduler) wait(ctx context.Context) bool {
	interval := s.interval()
	if interval <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
