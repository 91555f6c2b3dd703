// Package zkauth contains the version number of zkauth and the protocol
// defaults shared by its packages.
package zkauth

import "time"

// Version is the current version of zkauth.
//
// This variable is set at build time using the -X linker flag. If not set,
// it defaults to "devel".
var Version = "devel"

// DefaultChallengeTTL is how long an issued challenge stays verifiable. It
// has to cover one network round trip, and no more.
const DefaultChallengeTTL = time.Minute

// DefaultChallengeBits is the width of freshly drawn challenges. A prover
// that does not know the secret passes with probability about 2^-bits.
const DefaultChallengeBits = 256

// MinChallengeBits and MaxChallengeBits bound the configurable challenge width.
const (
	MinChallengeBits = 16
	MaxChallengeBits = 4096
)

// DefaultKeyPrefix is prepended to identities to form store keys.
const DefaultKeyPrefix = "challenge:"

// MaxIntegerBits is the largest integer zkauth will parse from a caller.
// Anything bigger is rejected before it reaches modular exponentiation.
const MaxIntegerBits = 16384
