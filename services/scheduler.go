// services/scheduler.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"esports-registration/workers"

	"github.com/go-co-op/gocron/v2"
)

// SessionPurger drops expired registration sessions.
type SessionPurger interface {
	Purge() int
}

// StartMaintenanceScheduler runs the orphan screenshot sweep every sweepEvery
// and, when purger is non-nil, purges expired in-memory sessions every purgeEvery.
func StartMaintenanceScheduler(ctx context.Context, sweeper *workers.OrphanSweeper, sweepEvery time.Duration, purger SessionPurger, purgeEvery time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	if sweeper != nil && sweepEvery > 0 {
		_, err = sched.NewJob(
			gocron.DurationJob(sweepEvery),
			gocron.NewTask(func() {
				if _, err := sweeper.Sweep(ctx); err != nil {
					log.Printf("[Scheduler] Orphan sweep failed: %v", err)
				}
			}),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to schedule orphan sweep: %w", err)
		}
	}

	if purger != nil && purgeEvery > 0 {
		_, err = sched.NewJob(
			gocron.DurationJob(purgeEvery),
			gocron.NewTask(func() {
				if n := purger.Purge(); n > 0 {
					log.Printf("[Scheduler] Purged %d expired registration session(s)", n)
				}
			}),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to schedule session purge: %w", err)
		}
	}

	sched.Start()
	return sched, nil
}
