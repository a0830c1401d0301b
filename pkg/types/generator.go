package types

import (
	"sync"
	"time"
)

// Generator mints snowflakes for one (worker id, process id) pair. The only
// mutable state is the next increment, guarded by a mutex so that two
// concurrent callers never observe the same increment for the same
// millisecond/worker/process triple. The critical section is O(1) and never
// held across I/O.
//
// Operational precondition: no two generators configured with the same
// (worker id, process id) pair may run concurrently against the same
// namespace. The generator cannot detect or enforce this.
type Generator struct {
	epoch     Epoch
	workerID  WorkerID
	processID ProcessID

	mu            sync.Mutex
	nextIncrement Increment
}

// NewGenerator creates a generator for the given namespace epoch and
// worker/process assignment. One generator is created per running process
// and lives for the process's lifetime.
func NewGenerator(epoch Epoch, workerID WorkerID, processID ProcessID) *Generator {
	return &Generator{
		epoch:     epoch,
		workerID:  workerID,
		processID: processID,
	}
}

// WorkerID returns the generator's fixed worker id.
func (g *Generator) WorkerID() WorkerID {
	return g.workerID
}

// ProcessID returns the generator's fixed process id.
func (g *Generator) ProcessID() ProcessID {
	return g.processID
}

// Epoch returns the namespace epoch the generator encodes against.
func (g *Generator) Epoch() Epoch {
	return g.epoch
}

// Generate mints a snowflake at the current instant.
//
// An error here means the instant cannot be encoded (time before epoch, or
// past the 42-bit ceiling). That is a fatal configuration or clock fault:
// callers should abort identifier issuance for the whole process rather than
// retry or silently wrap.
func (g *Generator) Generate() (Snowflake, error) {
	return g.GenerateAt(time.Now())
}

// GenerateAt mints a snowflake for the given instant. Within one millisecond
// snowflakes are distinguished by increment, up to 4096 per millisecond per
// (worker, process) pair.
func (g *Generator) GenerateAt(t time.Time) (Snowflake, error) {
	ts, err := TimestampAt(t, g.epoch)
	if err != nil {
		return 0, err
	}

	g.mu.Lock()
	inc := g.nextIncrement
	g.nextIncrement = inc.Next()
	g.mu.Unlock()

	return FromParts(ts, g.workerID, g.processID, inc), nil
}
