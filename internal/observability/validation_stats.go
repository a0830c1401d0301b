// Package observability tracks credential validation outcomes. Externally
// every rejection collapses to a single unauthorized result; the counters
// here preserve the internal distinction for logging and telemetry.
package observability

import (
	"sync"
	"time"
)

// Outcome is one internally-distinguished validation result.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeMalformed    Outcome = "malformed"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeUserMismatch Outcome = "user_mismatch"
	OutcomeExpired      Outcome = "expired"
	OutcomeHashError    Outcome = "hash_error"
	OutcomeStoreError   Outcome = "store_error"
)

// ValidationStats counts validation outcomes. All methods are O(1) and
// thread-safe.
type ValidationStats struct {
	mu       sync.RWMutex
	counts   map[Outcome]int64
	lastSeen map[Outcome]time.Time
}

// NewValidationStats creates an empty tracker.
func NewValidationStats() *ValidationStats {
	return &ValidationStats{
		counts:   make(map[Outcome]int64),
		lastSeen: make(map[Outcome]time.Time),
	}
}

// Record counts one occurrence of an outcome.
func (s *ValidationStats) Record(outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[outcome]++
	s.lastSeen[outcome] = time.Now()
}

// Count returns the number of occurrences of an outcome.
func (s *ValidationStats) Count(outcome Outcome) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[outcome]
}

// Snapshot returns a copy of all counters.
func (s *ValidationStats) Snapshot() map[Outcome]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[Outcome]int64, len(s.counts))
	for outcome, count := range s.counts {
		snapshot[outcome] = count
	}
	return snapshot
}

// LastSeen returns when an outcome was last recorded. The zero time means
// never.
func (s *ValidationStats) LastSeen(outcome Outcome) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen[outcome]
}
