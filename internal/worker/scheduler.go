package worker

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/edgecatalog/edged/internal/log"
	"github.com/edgecatalog/edged/internal/model"
)

// Scheduler re-runs discovery on a cron schedule so the catalog does
// not go stale between manual runs.
type Scheduler struct {
	mu      sync.RWMutex
	cron    *cron.Cron
	runner  *Runner
	region  string
	lastRun *model.DiscoveryRun
}

// NewScheduler creates a scheduler that refreshes the given region.
func NewScheduler(runner *Runner, region string) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		region: region,
	}
}

// Start registers the refresh job and starts the cron loop. The
// schedule accepts standard cron expressions and descriptors such as
// "@every 15m".
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.refresh); err != nil {
		return err
	}
	s.cron.Start()
	log.Info("Discovery scheduler started", "schedule", schedule, "region", s.region)
	return nil
}

// Stop stops the cron loop and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Discovery scheduler stopped")
}

// LastRun returns the most recent refresh result, or nil before the
// first run.
func (s *Scheduler) LastRun() *model.DiscoveryRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

func (s *Scheduler) refresh() {
	run := s.runner.Run(context.Background(), s.region)

	s.mu.Lock()
	s.lastRun = run
	s.mu.Unlock()
}
