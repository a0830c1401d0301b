package token

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/argon2"
)

// HashLen is the length of a stored token hash: the Argon2 default output
// length.
const HashLen = 32

// Argon2id work parameters. These match the parameters the deployed system
// hashed every stored credential with; changing them invalidates every
// record at rest, so they are constants rather than configuration.
const (
	argon2Time    = 2
	argon2Memory  = 19 * 1024 // KiB
	argon2Threads = 1
)

var (
	// ErrHash is returned when the hash computation itself fails. Unlike the
	// decode errors this is a server fault, surfaced to callers as an
	// internal error and logged with full detail.
	ErrHash = errors.New("auth token hashing failed")

	// ErrHashLength is returned when reconstructing a hash from stored bytes
	// of the wrong length.
	ErrHashLength = errors.New("auth token hash has incorrect length")
)

// Hash is the salted, memory-hard digest of a credential's core. It is
// derived from (core, salt) only, never from the user id: the user id
// recorded alongside the stored hash is what binds it to an identity, and is
// cross-checked at validation time.
type Hash [HashLen]byte

// Hash digests the token's core with its salt through Argon2id.
func (t Token) Hash() (Hash, error) {
	sum := argon2.IDKey(t.Core[:], t.Salt[:], argon2Time, argon2Memory, argon2Threads, HashLen)
	if len(sum) != HashLen {
		return Hash{}, ErrHash
	}

	var h Hash
	copy(h[:], sum)
	return h, nil
}

// HashFromBytes reconstructs a hash from its stored byte form.
func HashFromBytes(b []byte) (Hash, error) {
	if len(b) != HashLen {
		return Hash{}, ErrHashLength
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// Bytes returns the raw 32-byte digest for at-rest storage.
func (h Hash) Bytes() []byte {
	return h[:]
}

// Equal compares two hashes in constant time.
func (h Hash) Equal(other Hash) bool {
	return subtle.ConstantTimeCompare(h[:], other[:]) == 1
}

// String redacts the digest; stored hashes are lookup keys, not log content.
func (h Hash) String() string {
	return "Hash{[redacted]}"
}

// GoString redacts the digest in %#v output as well.
func (h Hash) GoString() string {
	return h.String()
}
