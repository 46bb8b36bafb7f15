// Package jobs runs periodic housekeeping next to the server.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// CodePurger deletes sign-in codes that expired before a Unix millisecond time.
type CodePurger interface {
	PurgeSignInCodes(ctx context.Context, before int64) (int64, error)
}

const purgeTimeout = 30 * time.Second

// Scheduler runs the purge of expired sign-in codes on a cron schedule.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler registers the purge job. schedule is a standard five-field
// cron spec or a descriptor such as "@every 1h".
func NewScheduler(store CodePurger, schedule string) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
		defer cancel()
		if _, err := PurgeExpiredCodes(ctx, store, time.Now()); err != nil {
			slog.Error("Sign-in code purge failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add purge job %q: %w", schedule, err)
	}
	return &Scheduler{cron: c}, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// PurgeExpiredCodes deletes every sign-in code expired at now.
func PurgeExpiredCodes(ctx context.Context, store CodePurger, now time.Time) (int64, error) {
	n, err := store.PurgeSignInCodes(ctx, now.UnixMilli())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("Purged expired sign-in codes", "count", n)
	}
	return n, nil
}
