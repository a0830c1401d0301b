// Package store provides implementations of the authentication record store:
// a SQLite-backed store for deployment, an in-memory store for tests, and a
// caching decorator that short-circuits lookups for hashes that were never
// stored.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gpluscb/stellwerk/internal/auth"
	"github.com/gpluscb/stellwerk/internal/token"
	"github.com/gpluscb/stellwerk/pkg/types"

	_ "github.com/mattn/go-sqlite3"
)

// Expiry is stored in nanoseconds so that any PositiveDuration round-trips
// exactly; a coarser unit would truncate sub-unit windows to zero and make
// the stored record unreadable.
const schema = `
CREATE TABLE IF NOT EXISTS auth_tokens (
	token_hash       BLOB PRIMARY KEY,
	user_snowflake   INTEGER NOT NULL,
	created_at_ms    INTEGER NOT NULL,
	expires_after_ns INTEGER
);
CREATE INDEX IF NOT EXISTS idx_auth_tokens_expiry
	ON auth_tokens (created_at_ms)
	WHERE expires_after_ns IS NOT NULL;
`

// SQLiteStore implements auth.Store on a local SQLite database. Snowflakes
// are stored as their signed 64-bit reinterpretation, matching the
// production schema; the cast is lossless in both directions.
type SQLiteStore struct {
	db     *sql.DB // write connection (single writer)
	readDB *sql.DB // read connection pool (concurrent readers)
	mu     sync.Mutex
}

// NewSQLite opens (creating if needed) the store at the given path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: failed to initialize schema: %w", err)
	}

	readDB, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&mode=ro")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: failed to open read database: %w", err)
	}
	readDB.SetMaxOpenConns(4)
	readDB.SetMaxIdleConns(4)
	readDB.SetConnMaxLifetime(5 * time.Minute)

	return &SQLiteStore{db: db, readDB: readDB}, nil
}

// Insert persists a new authentication record.
func (s *SQLiteStore) Insert(ctx context.Context, record *auth.Authentication) error {
	var expiresNanos sql.NullInt64
	if record.ExpiresAfter != nil {
		expiresNanos = sql.NullInt64{
			Int64: record.ExpiresAfter.Get().Nanoseconds(),
			Valid: true,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO auth_tokens (token_hash, user_snowflake, created_at_ms, expires_after_ns)
		VALUES (?, ?, ?, ?)`,
		record.TokenHash.Bytes(),
		int64(record.User.Uint64()),
		record.CreatedAt.UnixMilli(),
		expiresNanos,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return auth.ErrDuplicateHash
		}
		return fmt.Errorf("store: failed to insert authentication: %w", err)
	}
	return nil
}

// FetchByHash returns the record stored under the hash, or auth.ErrNotFound.
func (s *SQLiteStore) FetchByHash(ctx context.Context, hash token.Hash) (*auth.Authentication, error) {
	row := s.readDB.QueryRowContext(ctx, `
		SELECT user_snowflake, created_at_ms, expires_after_ns
		FROM auth_tokens
		WHERE token_hash = ?`,
		hash.Bytes(),
	)

	var (
		userSnowflake int64
		createdAtMS   int64
		expiresNanos  sql.NullInt64
	)
	if err := row.Scan(&userSnowflake, &createdAtMS, &expiresNanos); err != nil {
		if err == sql.ErrNoRows {
			return nil, auth.ErrNotFound
		}
		return nil, fmt.Errorf("store: failed to fetch authentication: %w", err)
	}

	record := &auth.Authentication{
		User:      types.IDFromUint64[types.UserMarker](uint64(userSnowflake)),
		TokenHash: hash,
		CreatedAt: time.UnixMilli(createdAtMS).UTC(),
	}
	if expiresNanos.Valid {
		expiry, err := types.NewPositiveDuration(time.Duration(expiresNanos.Int64))
		if err != nil {
			return nil, fmt.Errorf("store: stored expiry is invalid: %w", err)
		}
		record.ExpiresAfter = &expiry
	}

	return record, nil
}

// DeleteExpired removes every record whose computed expiry is strictly
// before now.
func (s *SQLiteStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM auth_tokens
		WHERE expires_after_ns IS NOT NULL
		  AND created_at_ms * 1000000 + expires_after_ns < ?`,
		now.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("store: failed to delete expired authentications: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: failed to count deleted rows: %w", err)
	}
	return removed, nil
}

// Hashes returns the hashes of all stored records.
func (s *SQLiteStore) Hashes(ctx context.Context) ([]token.Hash, error) {
	rows, err := s.readDB.QueryContext(ctx, `SELECT token_hash FROM auth_tokens`)
	if err != nil {
		return nil, fmt.Errorf("store: failed to list hashes: %w", err)
	}
	defer rows.Close()

	var hashes []token.Hash
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("store: failed to scan hash: %w", err)
		}
		hash, err := token.HashFromBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("store: stored hash is invalid: %w", err)
		}
		hashes = append(hashes, hash)
	}
	return hashes, rows.Err()
}

// Close closes both database connections.
func (s *SQLiteStore) Close() error {
	readErr := s.readDB.Close()
	writeErr := s.db.Close()
	if writeErr != nil {
		return writeErr
	}
	return readErr
}
