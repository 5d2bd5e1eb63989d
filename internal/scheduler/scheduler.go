package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Refresher recomputes stored projections.
type Refresher interface {
	RefreshProjections(ctx context.Context) (int, error)
}

// Purger drops cached projections.
type Purger interface {
	Purge()
}

// Scheduler manages the periodic maintenance jobs.
type Scheduler struct {
	Cron      *cron.Cron
	Refresher Refresher
	Memo      Purger
	Ctx       context.Context
	logger    *slog.Logger
}

// NewScheduler creates a scheduler. memo may be nil when caching is off.
func NewScheduler(ctx context.Context, refresher Refresher, memo Purger, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Refresher: refresher,
		Memo:      memo,
		Ctx:       ctx,
		logger:    logger.With("component", "scheduler"),
	}
}

// RegisterAll registers the projection refresh and memo purge jobs. An empty
// spec leaves that job out.
func (s *Scheduler) RegisterAll(refreshCron, purgeCron string) error {
	if refreshCron != "" {
		if _, err := s.Cron.AddFunc(refreshCron, s.RefreshNow); err != nil {
			return fmt.Errorf("register refresh task: %w", err)
		}
	}
	if purgeCron != "" && s.Memo != nil {
		if _, err := s.Cron.AddFunc(purgeCron, s.purge); err != nil {
			return fmt.Errorf("register purge task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.Cron.Entries()))
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RefreshNow runs the refresh job immediately.
func (s *Scheduler) RefreshNow() {
	s.logger.Info("running projection refresh")
	n, err := s.Refresher.RefreshProjections(s.Ctx)
	if err != nil {
		s.logger.Error("projection refresh failed", "refreshed", n, "error", err)
		return
	}
	s.logger.Info("projection refresh done", "refreshed", n)
}

func (s *Scheduler) purge() {
	s.Memo.Purge()
	s.logger.Debug("projection cache purged")
}
