package auth

import (
	"context"
	"time"

	serrors "github.com/gpluscb/stellwerk/internal/errors"
	"github.com/gpluscb/stellwerk/internal/token"
	"github.com/gpluscb/stellwerk/pkg/types"
)

// Issuer creates credentials: it generates random secret material, persists
// the hashed form, and hands back the one-time wire string for delivery to
// the client. The wire string is never stored.
type Issuer struct {
	store  Store
	hasher *token.HasherPool
}

// NewIssuer creates an issuer over the given store and hasher pool.
func NewIssuer(store Store, hasher *token.HasherPool) *Issuer {
	return &Issuer{store: store, hasher: hasher}
}

// Issue creates a credential for the user, valid for expiresAfter (nil means
// no expiry). It returns the wire string for the client and the persisted
// record.
func (i *Issuer) Issue(ctx context.Context, userID types.UserID, expiresAfter *types.PositiveDuration) (string, *Authentication, error) {
	return i.IssueAt(ctx, userID, expiresAfter, time.Now().UTC())
}

// IssueAt is Issue with an explicit issue instant.
func (i *Issuer) IssueAt(ctx context.Context, userID types.UserID, expiresAfter *types.PositiveDuration, now time.Time) (string, *Authentication, error) {
	tok, err := token.Generate(userID)
	if err != nil {
		return "", nil, serrors.NewInternalError("generate credential material", err)
	}

	hash, err := i.hasher.Hash(ctx, tok)
	if err != nil {
		if ctx.Err() != nil {
			return "", nil, err
		}
		return "", nil, serrors.NewHashError("hash issued credential", err)
	}

	record := &Authentication{
		User:         userID,
		TokenHash:    hash,
		CreatedAt:    now.UTC(),
		ExpiresAfter: expiresAfter,
	}

	if err := i.store.Insert(ctx, record); err != nil {
		return "", nil, serrors.NewStoreError(serrors.CodeQueryFailed, "persist authentication record", err)
	}

	return tok.Encode(), record, nil
}
