// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"storyhatch/internal/storage"
)

// TransientPruneScheduler periodically evicts terminal books from the
// transient in-memory tier once the durable store holds them, keeping
// process memory bounded on long uptimes.
type TransientPruneScheduler struct {
	store     *storage.Facade
	schedule  string
	retention time.Duration

	cron       *cron.Cron
	mu         sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewTransientPruneScheduler creates a scheduler with the given cron
// schedule and retention window.
func NewTransientPruneScheduler(store *storage.Facade, schedule string, retention time.Duration) *TransientPruneScheduler {
	return &TransientPruneScheduler{
		store:     store,
		schedule:  schedule,
		retention: retention,
		cron:      cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *TransientPruneScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.runPrune()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule prune job: %w", err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true
	log.Printf("Transient prune scheduler: started with schedule '%s', retention %v", s.schedule, s.retention)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *TransientPruneScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	s.cron.Stop()
	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	log.Printf("Transient prune scheduler: stopped")
}

func (s *TransientPruneScheduler) runPrune() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	evicted := s.store.PruneTransient(ctx, s.retention)
	if evicted > 0 {
		log.Printf("Transient prune: evicted %d books from the memory tier", evicted)
	}
}
