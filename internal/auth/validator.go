package auth

import (
	"context"
	"errors"
	"log"
	"time"

	serrors "github.com/gpluscb/stellwerk/internal/errors"
	"github.com/gpluscb/stellwerk/internal/observability"
	"github.com/gpluscb/stellwerk/internal/token"
	"github.com/gpluscb/stellwerk/pkg/types"
)

// Validator checks presented bearer credentials against stored
// authentication records. Validation performs no writes; its only side
// effect is the store lookup (and outcome counters).
type Validator struct {
	store  Store
	hasher *token.HasherPool
	stats  *observability.ValidationStats
}

// NewValidator creates a validator. stats may be nil to disable counting.
func NewValidator(store Store, hasher *token.HasherPool, stats *observability.ValidationStats) *Validator {
	return &Validator{store: store, hasher: hasher, stats: stats}
}

// Validate checks a presented credential against the current instant and
// returns the caller's user id on success.
func (v *Validator) Validate(ctx context.Context, presented string) (types.UserID, error) {
	return v.ValidateAt(ctx, presented, time.Now().UTC())
}

// ValidateAt is Validate with an explicit current instant.
//
// The steps, in order: decode the presented string, hash its core and salt,
// look up the stored record by hash, cross-check the stored owner against
// the token's embedded user id, and check expiry. Every rejection is a
// typed error; use errors.IsUnauthorized to collapse them to the single
// externally observable outcome.
func (v *Validator) ValidateAt(ctx context.Context, presented string, now time.Time) (types.UserID, error) {
	tok, err := token.Parse(presented)
	if err != nil {
		v.record(observability.OutcomeMalformed)
		return 0, serrors.NewCredentialError("decode presented credential", err)
	}

	hash, err := v.hasher.Hash(ctx, tok)
	if err != nil {
		if ctx.Err() != nil {
			return 0, err
		}
		v.record(observability.OutcomeHashError)
		log.Printf("auth: hashing presented credential failed: %v", err)
		return 0, serrors.NewHashError("hash presented credential", err)
	}

	record, err := v.store.FetchByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			v.record(observability.OutcomeNotFound)
			return 0, serrors.NewAuthError(serrors.CodeTokenNotFound, "no authentication for presented credential")
		}
		v.record(observability.OutcomeStoreError)
		return 0, serrors.NewStoreError(serrors.CodeQueryFailed, "look up authentication record", err)
	}

	// The hash is derived from core and salt only, so a record found under
	// an unexpected identity binding is a data-integrity violation. Reject
	// the request; never coerce to the stored user.
	if record.User != tok.UserID {
		v.record(observability.OutcomeUserMismatch)
		log.Printf("auth: stored user %s does not match token user %s for matching hash", record.User, tok.UserID)
		return 0, serrors.NewAuthError(serrors.CodeUserMismatch, "stored user does not match token user")
	}

	if record.Expired(now) {
		v.record(observability.OutcomeExpired)
		return 0, serrors.NewAuthError(serrors.CodeTokenExpired, "credential has expired")
	}

	v.record(observability.OutcomeOK)
	return record.User, nil
}

func (v *Validator) record(outcome observability.Outcome) {
	if v.stats != nil {
		v.stats.Record(outcome)
	}
}
