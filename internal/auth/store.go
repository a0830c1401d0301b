package auth

import (
	"context"
	"errors"
	"time"

	"github.com/gpluscb/stellwerk/internal/token"
)

// ErrNotFound is returned by Store.FetchByHash when no authentication record
// matches the hash.
var ErrNotFound = errors.New("authentication not found")

// ErrDuplicateHash is returned by Store.Insert when a record with the same
// hash already exists. With 24 bytes of core entropy this indicates a bug,
// not a plausible collision.
var ErrDuplicateHash = errors.New("authentication with this hash already exists")

// Store is the persistence collaborator for authentication records. The core
// defines only the shape of the access: lookup by hash with at most one
// match expected, insert at issuance, and the bulk delete predicate
// "created_at + expires_after < now" used by the sweep. Concurrency control
// inside the store is the implementation's concern.
type Store interface {
	// Insert persists a new authentication record.
	Insert(ctx context.Context, record *Authentication) error

	// FetchByHash returns the record stored under the given hash, or
	// ErrNotFound.
	FetchByHash(ctx context.Context, hash token.Hash) (*Authentication, error)

	// DeleteExpired removes every record whose expiry is strictly before
	// now and returns how many were removed. Records without an expiry are
	// never touched.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// Hashes returns the hashes of all stored records, used to warm the
	// negative cache at startup.
	Hashes(ctx context.Context) ([]token.Hash, error)

	// Close releases the store's resources.
	Close() error
}
