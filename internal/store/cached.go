package store

import (
	"context"
	"time"

	"github.com/gpluscb/stellwerk/internal/auth"
	"github.com/gpluscb/stellwerk/internal/bloom"
	"github.com/gpluscb/stellwerk/internal/token"
)

// CachedStore decorates a Store with a bloom-filter negative cache over
// stored hashes. A filter miss proves the hash was never inserted, so the
// lookup for an unknown credential returns not-found without touching the
// underlying store; a filter hit falls through to the store, so false
// positives cost a query but never change the result.
//
// Precondition: every insert for the lifetime of the underlying store goes
// through this wrapper (or happened before the warm-up). Inserts that bypass
// it would make the filter report false negatives, which would falsely
// reject valid credentials.
type CachedStore struct {
	inner  auth.Store
	filter *bloom.Filter
}

// NewCached warms a filter from the store's current contents and returns the
// caching wrapper. expectedItems sizes the filter; it should be comfortably
// above the anticipated number of live credentials.
func NewCached(ctx context.Context, inner auth.Store, expectedItems int) (*CachedStore, error) {
	filter := bloom.New(expectedItems, 0.01)

	hashes, err := inner.Hashes(ctx)
	if err != nil {
		return nil, err
	}
	for _, hash := range hashes {
		filter.Add(hash.Bytes())
	}

	return &CachedStore{inner: inner, filter: filter}, nil
}

// Insert persists the record and marks its hash in the filter.
func (c *CachedStore) Insert(ctx context.Context, record *auth.Authentication) error {
	if err := c.inner.Insert(ctx, record); err != nil {
		return err
	}
	c.filter.Add(record.TokenHash.Bytes())
	return nil
}

// FetchByHash short-circuits hashes the filter has never seen.
func (c *CachedStore) FetchByHash(ctx context.Context, hash token.Hash) (*auth.Authentication, error) {
	if !c.filter.Contains(hash.Bytes()) {
		return nil, auth.ErrNotFound
	}
	return c.inner.FetchByHash(ctx, hash)
}

// DeleteExpired passes through to the underlying store. Deleted hashes stay
// in the filter as stale positives, which is safe: a later lookup falls
// through and the store reports not-found.
func (c *CachedStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return c.inner.DeleteExpired(ctx, now)
}

// Hashes passes through to the underlying store.
func (c *CachedStore) Hashes(ctx context.Context) ([]token.Hash, error) {
	return c.inner.Hashes(ctx)
}

// Close closes the underlying store.
func (c *CachedStore) Close() error {
	return c.inner.Close()
}
