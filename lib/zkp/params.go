package zkp

import (
	"fmt"
	"math/big"

	"github.com/TecharoHQ/zkauth"
)

// PublicParams are the public values of one identity, as decimal strings.
// They come from the identity repository and are never stored by zkauth.
type PublicParams struct {
	PublicKey string `json:"publicKeyY"` // y = g^x mod p
	Modulus   string `json:"p"`
	Generator string `json:"g"`
}

type publicParams struct {
	y *big.Int
	group
}

func (pp PublicParams) parse() (*publicParams, error) {
	y, err := ParseInt("publicKeyY", pp.PublicKey)
	if err != nil {
		return nil, err
	}

	p, err := ParseInt("p", pp.Modulus)
	if err != nil {
		return nil, err
	}

	g, err := ParseInt("g", pp.Generator)
	if err != nil {
		return nil, err
	}

	// a prime modulus this small or this even can't be meant seriously, and
	// the constant-time exponentiation needs an odd modulus
	if p.Cmp(big.NewInt(3)) < 0 || p.Bit(0) == 0 {
		return nil, fmt.Errorf("%w: modulus must be an odd number of at least 3", ErrInvalidParameters)
	}

	return &publicParams{y: y, group: group{p: p, g: g}}, nil
}

// ParseInt parses a non-negative base 10 integer of arbitrary precision. The
// field name only shows up in the error message.
func ParseInt(field, value string) (*big.Int, error) {
	if len(value) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrMalformedInteger, field)
	}

	// a decimal digit carries a bit more than 3 bits, reject absurd inputs
	// before big.Int allocates for them
	if len(value) > zkauth.MaxIntegerBits/3+1 {
		return nil, fmt.Errorf("%w: %s is too long", ErrMalformedInteger, field)
	}

	result, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a base 10 integer", ErrMalformedInteger, field)
	}

	if result.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s is negative", ErrMalformedInteger, field)
	}

	if result.BitLen() > zkauth.MaxIntegerBits {
		return nil, fmt.Errorf("%w: %s is wider than %d bits", ErrMalformedInteger, field, zkauth.MaxIntegerBits)
	}

	return result, nil
}
