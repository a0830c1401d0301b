package auth

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSweepInterval is how often the sweeper runs when no interval is
// configured.
const DefaultSweepInterval = 5 * time.Minute

// Sweeper periodically deletes authentication records whose expiry has
// passed. This is maintenance, not part of request-path validation: a record
// either is or isn't expired at lookup time, so the sweep can run on any
// schedule without affecting concurrent validations.
type Sweeper struct {
	store    Store
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSweeper creates a sweeper over the given store.
func NewSweeper(store Store, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{store: store, interval: interval}
}

// Start begins the sweep loop. It runs until the context is cancelled or
// Stop is called.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("sweeper: already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.run(ctx)
	return nil
}

// Stop gracefully stops the sweep loop.
func (s *Sweeper) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.cancel()
	<-s.done
	s.running = false
	return nil
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				log.Printf("sweeper: sweep failed: %v", err)
			}
		}
	}
}

// RunOnce performs a single sweep and returns the number of records removed.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	runID := uuid.NewString()

	removed, err := s.store.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("sweeper: run %s: %w", runID, err)
	}

	if removed > 0 {
		log.Printf("sweeper: run %s removed %d expired authentications", runID, removed)
	}
	return removed, nil
}
