// Package token implements bearer credentials: random secret generation, the
// canonical colon-delimited wire encoding, and the salted Argon2id hash
// stored in place of the credential itself.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gpluscb/stellwerk/pkg/types"
)

const (
	// CoreLen is the length of the random core secret in bytes. The core is
	// the only evidentiary secret in a credential.
	CoreLen = 24

	// SaltLen is the length of the random salt in bytes. The salt only
	// randomizes the hash; it carries no identity.
	SaltLen = 18
)

// Decode errors. All are client-input faults (a malformed presented
// credential), never server faults, and are never worth retrying.
var (
	// ErrNotEnoughParts is returned when the wire form has fewer than three
	// colon-separated parts.
	ErrNotEnoughParts = errors.New("auth token does not have three ':'-separated parts")

	// ErrInvalidUserID is returned when the user id segment is not a valid
	// non-negative integer.
	ErrInvalidUserID = errors.New("auth token user id is not a valid non-negative integer")

	// ErrBadBase64 is returned when either base64 segment fails to decode.
	ErrBadBase64 = errors.New("auth token base64 segment failed to decode")

	// ErrCoreLength is returned when the decoded core is not CoreLen bytes.
	ErrCoreLength = errors.New("auth token core has incorrect length")

	// ErrSaltLength is returned when the decoded salt is not SaltLen bytes.
	ErrSaltLength = errors.New("auth token salt has incorrect length")
)

// Token is a bearer credential: the owning user's identifier plus random
// core and salt material. The wire form is
// "{user_id}:{base64(core)}:{base64(salt)}" with padded standard base64.
//
// Core and salt never appear in formatted output; String and GoString redact
// them unconditionally. Encode is the only way to obtain the secret wire
// form.
type Token struct {
	UserID types.UserID
	Core   [CoreLen]byte
	Salt   [SaltLen]byte
}

// Generate creates a fresh credential for the given user from a
// cryptographically secure random source.
func Generate(userID types.UserID) (Token, error) {
	var t Token
	t.UserID = userID
	if _, err := rand.Read(t.Core[:]); err != nil {
		return Token{}, fmt.Errorf("token: failed to generate core: %w", err)
	}
	if _, err := rand.Read(t.Salt[:]); err != nil {
		return Token{}, fmt.Errorf("token: failed to generate salt: %w", err)
	}
	return t, nil
}

// Encode renders the canonical wire form. The result is the bearer
// credential delivered to the client exactly once; it must never be logged.
func (t Token) Encode() string {
	return fmt.Sprintf("%s:%s:%s",
		t.UserID,
		base64.StdEncoding.EncodeToString(t.Core[:]),
		base64.StdEncoding.EncodeToString(t.Salt[:]))
}

// Parse decodes the wire form. The string is split on the first two colons
// only, so a malformed trailer with extra colons lands in the salt segment
// and fails base64 decoding there instead of being ambiguous.
func Parse(s string) (Token, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 3 {
		return Token{}, ErrNotEnoughParts
	}

	userRaw, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrInvalidUserID, err)
	}

	core, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrBadBase64, err)
	}
	if len(core) != CoreLen {
		return Token{}, ErrCoreLength
	}

	salt, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrBadBase64, err)
	}
	if len(salt) != SaltLen {
		return Token{}, ErrSaltLength
	}

	t := Token{UserID: types.IDFromUint64[types.UserMarker](userRaw)}
	copy(t.Core[:], core)
	copy(t.Salt[:], salt)
	return t, nil
}

// String redacts the secret material. Use Encode for the wire form.
func (t Token) String() string {
	return fmt.Sprintf("Token{user_id: %s, core: [redacted], salt: [redacted]}", t.UserID)
}

// GoString redacts the secret material in %#v output as well.
func (t Token) GoString() string {
	return t.String()
}
