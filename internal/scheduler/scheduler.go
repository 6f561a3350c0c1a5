// Package scheduler runs the periodic background jobs on gocron.
package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"patrimony/internal/logger"

	"github.com/go-co-op/gocron/v2"
)

// TaskFunc is the body of a job.
type TaskFunc func(ctx context.Context) error

// Scheduler wraps a gocron scheduler. Jobs never overlap with themselves.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// New creates a stopped scheduler.
func New() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins running the registered jobs.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop waits for running jobs and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

// NewIntervalJob runs fn every interval. A run that would overlap the
// previous one is rescheduled.
func (s *Scheduler) NewIntervalJob(name string, fn TaskFunc, interval time.Duration, startImmediately bool) error {
	opts := []gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if startImmediately {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(withRecover(name, fn)),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("creating job %s: %w", name, err)
	}
	return nil
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.scheduler.Jobs())
}

func withRecover(name string, fn TaskFunc) func(ctx context.Context) {
	return func(ctx context.Context) {
		log := logger.Named("scheduler")
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("panic recovered in job",
					"job", name,
					"panic", r,
					"stacktrace", string(debug.Stack()),
				)
			}
		}()

		start := time.Now()
		log.Debugw("job start", "job", name)

		if err := fn(ctx); err != nil {
			log.Errorw("job failed", "job", name, "error", err, "duration", time.Since(start))
			return
		}
		log.Infow("job completed", "job", name, "duration", time.Since(start))
	}
}
