// Package zkptest has fixtures for tests exercising the zkp engine.
package zkptest

import (
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/TecharoHQ/zkauth/lib/zkp"
	"github.com/google/uuid"
)

// Toy is the textbook group p = 23, g = 5. Never use it for anything real.
var Toy = zkp.Group{
	Modulus:   big.NewInt(23),
	Generator: big.NewInt(5),
}

// Mersenne127 is p = 2^127 - 1 with g = 3, big enough to make the arithmetic
// non-trivial while staying fast.
var Mersenne127 = zkp.Group{
	Modulus:   new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1)),
	Generator: big.NewInt(3),
}

// NewIdentity returns an identity no other test uses.
func NewIdentity(t *testing.T) string {
	t.Helper()

	return fmt.Sprintf("%s/%s", t.Name(), uuid.Must(uuid.NewV7()))
}

// Source hands out fixed challenges in order, then keeps repeating the last
// one.
type Source struct {
	lock   sync.Mutex
	values []*big.Int
}

func NewSource(values ...int64) *Source {
	result := &Source{}
	for _, v := range values {
		result.values = append(result.values, big.NewInt(v))
	}
	return result
}

func (s *Source) Challenge() (*big.Int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if len(s.values) == 0 {
		return nil, fmt.Errorf("zkptest: source has no values")
	}

	result := s.values[0]
	if len(s.values) > 1 {
		s.values = s.values[1:]
	}

	return new(big.Int).Set(result), nil
}
