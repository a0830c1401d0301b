package token

import (
	"testing"

	"github.com/gpluscb/stellwerk/pkg/types"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestProperty_TokenWireRoundTrip validates parse(encode(token)) == token for
// arbitrary user ids and secret material.
func TestProperty_TokenWireRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("parse(encode(token)) == token", prop.ForAll(
		func(userRaw uint64, coreSeed []byte, saltSeed []byte) bool {
			tok := Token{UserID: types.IDFromUint64[types.UserMarker](userRaw)}
			copy(tok.Core[:], coreSeed)
			copy(tok.Salt[:], saltSeed)

			parsed, err := Parse(tok.Encode())
			if err != nil {
				return false
			}
			return parsed == tok
		},
		gen.UInt64(),
		gen.SliceOfN(CoreLen, gen.UInt8()),
		gen.SliceOfN(SaltLen, gen.UInt8()),
	))

	properties.TestingRun(t)
}
