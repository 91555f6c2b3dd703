package zkp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/TecharoHQ/zkauth"
)

// ChallengeSource draws challenges. Implementations must be safe for
// concurrent use.
type ChallengeSource interface {
	Challenge() (*big.Int, error)
}

// RandomSource draws challenges uniformly from [1, 2^Bits) using a
// cryptographically secure random source.
type RandomSource struct {
	// Bits defaults to zkauth.DefaultChallengeBits.
	Bits int

	// Reader defaults to crypto/rand.Reader.
	Reader io.Reader
}

func (rs RandomSource) Challenge() (*big.Int, error) {
	bits := rs.Bits
	if bits <= 0 {
		bits = zkauth.DefaultChallengeBits
	}

	reader := rs.Reader
	if reader == nil {
		reader = rand.Reader
	}

	// [0, 2^bits - 1) shifted up by one, zero would make the proof trivial
	bound := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	bound.Sub(bound, big.NewInt(1))

	result, err := rand.Int(reader, bound)
	if err != nil {
		return nil, fmt.Errorf("zkp: can't draw challenge: %w", err)
	}

	return result.Add(result, big.NewInt(1)), nil
}
