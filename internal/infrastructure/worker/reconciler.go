// Package worker contains background jobs. The only job today is session
// reconciliation: learning sessions whose XP award failed mid-flight are
// re-driven through the ledger until the award lands exactly once.
package worker

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/learnloop/learnloop-hub/internal/application/command"
	"github.com/learnloop/learnloop-hub/internal/domain/learning"
	"github.com/learnloop/learnloop-hub/pkg/logger"
)

// Reconciler periodically sweeps unapplied learning sessions.
type Reconciler struct {
	scheduler *gocron.Scheduler
	sessions  learning.SessionRepository
	ledger    *command.ProgressLedger
	interval  time.Duration
	batchSize int
	log       *logger.Logger
}

// NewReconciler creates a reconciler sweeping every interval.
func NewReconciler(
	sessions learning.SessionRepository,
	ledger *command.ProgressLedger,
	interval time.Duration,
	batchSize int,
	log *logger.Logger,
) *Reconciler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Reconciler{
		scheduler: gocron.NewScheduler(time.UTC),
		sessions:  sessions,
		ledger:    ledger,
		interval:  interval,
		batchSize: batchSize,
		log:       log.With("component", "reconciler"),
	}
}

// Start schedules the sweep and returns immediately.
func (r *Reconciler) Start() error {
	if _, err := r.scheduler.Every(r.interval).Do(r.sweep); err != nil {
		return err
	}
	r.scheduler.StartAsync()
	r.log.Info("reconciler started", "interval", r.interval, "batch_size", r.batchSize)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (r *Reconciler) Stop() {
	r.scheduler.Stop()
	r.log.Info("reconciler stopped")
}

// sweep re-applies one batch of unapplied sessions. A session that fails
// again stays unapplied and is retried on the next pass.
func (r *Reconciler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), r.interval)
	defer cancel()

	stale, err := r.sessions.ListUnapplied(ctx, r.batchSize)
	if err != nil {
		r.log.Error("list unapplied sessions failed", "error", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	applied := 0
	for _, session := range stale {
		if err := r.ledger.ReapplySession(ctx, session); err != nil {
			r.log.Warn("session reapply failed",
				"session_id", session.ID,
				"user_id", session.UserID,
				"error", err,
			)
			continue
		}
		applied++
	}
	r.log.Info("reconciliation pass finished", "found", len(stale), "applied", applied)
}
