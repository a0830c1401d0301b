package token

import (
	"context"
	"runtime"
)

// HasherPool bounds the number of Argon2 computations running at once.
// Hashing is CPU-bound and deliberately slow, so unbounded concurrency under
// request load would stall unrelated request handling; the pool caps it at a
// fixed number of slots acquired per call.
type HasherPool struct {
	slots chan struct{}
}

// NewHasherPool creates a pool with the given number of concurrent slots.
// A size of zero or less defaults to the number of CPUs.
func NewHasherPool(size int) *HasherPool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &HasherPool{slots: make(chan struct{}, size)}
}

// Hash digests the token once a slot is free. Cancelling the context while
// waiting abandons the request without consuming a slot; a computation
// already in flight runs to completion.
func (p *HasherPool) Hash(ctx context.Context, t Token) (Hash, error) {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return Hash{}, ctx.Err()
	}
	defer func() { <-p.slots }()

	return t.Hash()
}
