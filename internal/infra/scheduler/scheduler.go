// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/goal-planner/backend/internal/application/usecase/progress"
)

const (
	rebuildTimeout = 30 * time.Minute

	// CleanupCron evicts expired in-memory state every five minutes.
	CleanupCron = "0 */5 * * * *"
)

// Scheduler manages the cron jobs of the API.
type Scheduler struct {
	cron    *cron.Cron
	rebuild *progress.RebuildProgressUseCase
	ctx     context.Context
}

// NewScheduler creates a new Scheduler. Cron specs carry a leading seconds field.
func NewScheduler(ctx context.Context, rebuild *progress.RebuildProgressUseCase) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		rebuild: rebuild,
		ctx:     ctx,
	}
}

// RegisterAll registers the progress rebuild job.
func (s *Scheduler) RegisterAll(progressRebuildCron string) error {
	if _, err := s.cron.AddFunc(progressRebuildCron, s.RunProgressRebuild); err != nil {
		return fmt.Errorf("register progress rebuild: %w", err)
	}
	return nil
}

// RegisterCleanup registers a housekeeping job, such as evicting expired rate limit entries.
func (s *Scheduler) RegisterCleanup(name, spec string, cleanup func()) error {
	if _, err := s.cron.AddFunc(spec, cleanup); err != nil {
		return fmt.Errorf("register %s cleanup: %w", name, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("Scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("Scheduler stopped")
}

// RunProgressRebuild recomputes every user's cumulative progress from history.
func (s *Scheduler) RunProgressRebuild() {
	ctx, cancel := context.WithTimeout(s.ctx, rebuildTimeout)
	defer cancel()

	slog.Info("Running progress rebuild")
	output, err := s.rebuild.Execute(ctx, progress.RebuildProgressInput{})
	if err != nil {
		slog.Error("Progress rebuild failed", "error", err)
		return
	}
	if output.Conflicts > 0 {
		slog.Warn("Progress rebuild resolved duplicate entries", "conflicts", output.Conflicts)
	}
}
