package token

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/gpluscb/stellwerk/pkg/types"
)

func TestGenerate_EncodeParseRoundTrip(t *testing.T) {
	userID := types.IDFromUint64[types.UserMarker](3416757633025310720)

	tok, err := Generate(userID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	wire := tok.Encode()
	parts := strings.Split(wire, ":")
	if len(parts) != 3 {
		t.Fatalf("wire form should have exactly three parts, got %d", len(parts))
	}
	if parts[0] != userID.String() {
		t.Errorf("user id segment mismatch: got %s, want %s", parts[0], userID)
	}

	parsed, err := Parse(wire)
	if err != nil {
		t.Fatalf("failed to parse wire form: %v", err)
	}
	if parsed != tok {
		t.Error("parse(encode(token)) should return the original token")
	}
}

func TestGenerate_FreshRandomMaterial(t *testing.T) {
	userID := types.IDFromUint64[types.UserMarker](7)

	a, err := Generate(userID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	b, err := Generate(userID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if a.Core == b.Core {
		t.Error("two generated tokens should not share a core")
	}
	if a.Salt == b.Salt {
		t.Error("two generated tokens should not share a salt")
	}
}

func TestParse_RejectsMalformedInput(t *testing.T) {
	validCore := base64.StdEncoding.EncodeToString(make([]byte, CoreLen))
	validSalt := base64.StdEncoding.EncodeToString(make([]byte, SaltLen))
	shortCore := base64.StdEncoding.EncodeToString(make([]byte, CoreLen-1))
	longCore := base64.StdEncoding.EncodeToString(make([]byte, CoreLen+1))
	shortSalt := base64.StdEncoding.EncodeToString(make([]byte, SaltLen-1))

	cases := []struct {
		name  string
		input string
		want  error
	}{
		{"no colons", "justonepart", ErrNotEnoughParts},
		{"one colon", "1:" + validCore, ErrNotEnoughParts},
		{"empty string", "", ErrNotEnoughParts},
		{"non-numeric user id", "abc:" + validCore + ":" + validSalt, ErrInvalidUserID},
		{"negative user id", "-1:" + validCore + ":" + validSalt, ErrInvalidUserID},
		{"bad base64 core", "1:badbase64:AA==", ErrBadBase64},
		{"core too short", "1:" + shortCore + ":" + validSalt, ErrCoreLength},
		{"core too long", "1:" + longCore + ":" + validSalt, ErrCoreLength},
		{"salt too short", "1:" + validCore + ":" + shortSalt, ErrSaltLength},
		{"extra colons in salt region", "1:" + validCore + ":" + validSalt + ":trailer", ErrBadBase64},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			if !errors.Is(err, tc.want) {
				t.Errorf("Parse(%q) = %v, want %v", tc.input, err, tc.want)
			}
		})
	}
}

func TestToken_RedactsSecretsInFormattedOutput(t *testing.T) {
	tok, err := Generate(types.IDFromUint64[types.UserMarker](42))
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	coreB64 := base64.StdEncoding.EncodeToString(tok.Core[:])
	saltB64 := base64.StdEncoding.EncodeToString(tok.Salt[:])

	for _, rendered := range []string{
		tok.String(),
		fmt.Sprintf("%v", tok),
		fmt.Sprintf("%s", tok),
		fmt.Sprintf("%#v", tok),
	} {
		if strings.Contains(rendered, coreB64) || strings.Contains(rendered, saltB64) {
			t.Errorf("formatted output leaks secret material: %s", rendered)
		}
		if !strings.Contains(rendered, "[redacted]") {
			t.Errorf("formatted output should be redacted: %s", rendered)
		}
	}
}

func TestHash_Deterministic(t *testing.T) {
	tok, err := Generate(types.IDFromUint64[types.UserMarker](7))
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	first, err := tok.Hash()
	if err != nil {
		t.Fatalf("failed to hash token: %v", err)
	}
	second, err := tok.Hash()
	if err != nil {
		t.Fatalf("failed to hash token: %v", err)
	}
	if first != second {
		t.Error("hashing the same (core, salt) twice should be deterministic")
	}

	// The hash depends only on core and salt, never on the user id.
	other := tok
	other.UserID = types.IDFromUint64[types.UserMarker](9)
	otherHash, err := other.Hash()
	if err != nil {
		t.Fatalf("failed to hash token: %v", err)
	}
	if otherHash != first {
		t.Error("hash should not depend on the user id")
	}

	// Changing either core or salt changes the digest.
	coreChanged := tok
	coreChanged.Core[0] ^= 0x01
	coreHash, err := coreChanged.Hash()
	if err != nil {
		t.Fatalf("failed to hash token: %v", err)
	}
	if coreHash == first {
		t.Error("changing the core should change the hash")
	}

	saltChanged := tok
	saltChanged.Salt[0] ^= 0x01
	saltHash, err := saltChanged.Hash()
	if err != nil {
		t.Fatalf("failed to hash token: %v", err)
	}
	if saltHash == first {
		t.Error("changing the salt should change the hash")
	}
}

func TestHashFromBytes_LengthChecked(t *testing.T) {
	if _, err := HashFromBytes(make([]byte, HashLen-1)); !errors.Is(err, ErrHashLength) {
		t.Errorf("short input should be rejected, got %v", err)
	}
	if _, err := HashFromBytes(make([]byte, HashLen+1)); !errors.Is(err, ErrHashLength) {
		t.Errorf("long input should be rejected, got %v", err)
	}

	raw := make([]byte, HashLen)
	raw[0] = 0xAB
	h, err := HashFromBytes(raw)
	if err != nil {
		t.Fatalf("valid input should round-trip: %v", err)
	}
	if h[0] != 0xAB {
		t.Error("bytes should be copied through")
	}
	if !strings.Contains(h.String(), "[redacted]") {
		t.Errorf("hash output should be redacted: %s", h.String())
	}
}

func TestHasherPool_HashesAndHonorsCancellation(t *testing.T) {
	pool := NewHasherPool(1)
	tok, err := Generate(types.IDFromUint64[types.UserMarker](7))
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	direct, err := tok.Hash()
	if err != nil {
		t.Fatalf("failed to hash directly: %v", err)
	}
	pooled, err := pool.Hash(context.Background(), tok)
	if err != nil {
		t.Fatalf("failed to hash through pool: %v", err)
	}
	if pooled != direct {
		t.Error("pooled hash should match direct hash")
	}

	// With the single slot held, a cancelled caller gives up instead of
	// queueing forever.
	pool.slots <- struct{}{}
	defer func() { <-pool.slots }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := pool.Hash(ctx, tok); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled hash should return context.Canceled, got %v", err)
	}
}
