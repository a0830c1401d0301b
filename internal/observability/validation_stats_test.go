package observability

import (
	"sync"
	"testing"
)

func TestValidationStats_RecordAndSnapshot(t *testing.T) {
	stats := NewValidationStats()

	stats.Record(OutcomeOK)
	stats.Record(OutcomeOK)
	stats.Record(OutcomeExpired)

	if got := stats.Count(OutcomeOK); got != 2 {
		t.Errorf("ok count = %d, want 2", got)
	}
	if got := stats.Count(OutcomeExpired); got != 1 {
		t.Errorf("expired count = %d, want 1", got)
	}
	if got := stats.Count(OutcomeUserMismatch); got != 0 {
		t.Errorf("unrecorded outcome count = %d, want 0", got)
	}

	snapshot := stats.Snapshot()
	if snapshot[OutcomeOK] != 2 || snapshot[OutcomeExpired] != 1 {
		t.Errorf("unexpected snapshot: %v", snapshot)
	}

	if stats.LastSeen(OutcomeOK).IsZero() {
		t.Error("last seen should be set after recording")
	}
	if !stats.LastSeen(OutcomeNotFound).IsZero() {
		t.Error("last seen should be zero for unrecorded outcomes")
	}
}

func TestValidationStats_ConcurrentRecording(t *testing.T) {
	stats := NewValidationStats()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats.Record(OutcomeNotFound)
		}()
	}
	wg.Wait()

	if got := stats.Count(OutcomeNotFound); got != 100 {
		t.Errorf("concurrent count = %d, want 100", got)
	}
}
