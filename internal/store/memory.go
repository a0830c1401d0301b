package store

import (
	"context"
	"sync"
	"time"

	"github.com/gpluscb/stellwerk/internal/auth"
	"github.com/gpluscb/stellwerk/internal/token"
)

// MemoryStore implements auth.Store in memory. Used by tests and dry runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[token.Hash]auth.Authentication
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{records: make(map[token.Hash]auth.Authentication)}
}

// Insert persists a new authentication record.
func (m *MemoryStore) Insert(_ context.Context, record *auth.Authentication) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[record.TokenHash]; exists {
		return auth.ErrDuplicateHash
	}
	m.records[record.TokenHash] = *record
	return nil
}

// FetchByHash returns the record stored under the hash, or auth.ErrNotFound.
func (m *MemoryStore) FetchByHash(_ context.Context, hash token.Hash) (*auth.Authentication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[hash]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return &record, nil
}

// DeleteExpired removes every record whose expiry is strictly before now.
func (m *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for hash, record := range m.records {
		if record.Expired(now) {
			delete(m.records, hash)
			removed++
		}
	}
	return removed, nil
}

// Hashes returns the hashes of all stored records.
func (m *MemoryStore) Hashes(_ context.Context) ([]token.Hash, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hashes := make([]token.Hash, 0, len(m.records))
	for hash := range m.records {
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

// Len returns the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
