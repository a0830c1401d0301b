// Package auth implements the credential lifecycle: issuance of bearer
// tokens, expiry-aware validation of presented tokens, and the maintenance
// sweep that removes expired authentication records.
package auth

import (
	"time"

	"github.com/gpluscb/stellwerk/internal/token"
	"github.com/gpluscb/stellwerk/pkg/types"
)

// Authentication is the stored association between a user, a credential
// hash, its issue time, and an optional expiry. It is created at issuance,
// read on every authenticated request, and deleted by the sweep once
// expired or on explicit revocation.
type Authentication struct {
	// User owns the credential. The hash alone does not bind identity; this
	// field does, and is cross-checked against the token's embedded user id
	// at validation time.
	User types.UserID

	// TokenHash is the salted digest stored in place of the credential.
	TokenHash token.Hash

	// CreatedAt is the issue instant, UTC.
	CreatedAt time.Time

	// ExpiresAfter is the optional expiry window. Nil means the credential
	// never expires.
	ExpiresAfter *types.PositiveDuration
}

// ExpiresAt returns the instant the credential expires. The second return is
// false for non-expiring credentials.
func (a *Authentication) ExpiresAt() (time.Time, bool) {
	if a.ExpiresAfter == nil {
		return time.Time{}, false
	}
	return a.CreatedAt.Add(a.ExpiresAfter.Get()), true
}

// Expired reports whether the credential's expiry is strictly before now.
// A record at exactly its expiry instant is still valid.
func (a *Authentication) Expired(now time.Time) bool {
	expiresAt, ok := a.ExpiresAt()
	if !ok {
		return false
	}
	return expiresAt.Before(now)
}
