package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler fires a full sweep on a fixed interval, with a short
// startup delay before the first one.
type Scheduler struct {
	svc          *CheckerService
	interval     time.Duration
	startupDelay time.Duration

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex // One sweep at a time
}

// NewScheduler creates a new scheduler
func NewScheduler(svc *CheckerService, interval, startupDelay time.Duration) *Scheduler {
	return &Scheduler{
		svc:          svc,
		interval:     interval,
		startupDelay: startupDelay,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.cron = cron.New()
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), s.sweep)
	if err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	// First sweep after the startup delay; the cron interval takes it
	// from there.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		select {
		case <-s.ctx.Done():
			return
		case <-time.After(s.startupDelay):
			s.sweep()
		}
	}()

	s.cron.Start()
	fmt.Printf("[Scheduler] Started with interval %v\n", s.interval)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to wind down.
// Checks already admitted into the sweep run to completion.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.wg.Wait()
	fmt.Println("[Scheduler] Stopped")
}

// sweep runs one full sweep, skipping if the scheduler was stopped.
func (s *Scheduler) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return
	}
	if _, err := s.svc.RunSweep(s.ctx); err != nil {
		fmt.Printf("[Scheduler] Sweep failed: %v\n", err)
	}
}
