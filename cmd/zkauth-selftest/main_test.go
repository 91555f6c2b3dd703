package main

import (
	"errors"
	"math/big"
	"testing"

	"github.com/TecharoHQ/zkauth/lib/store/memory"
	"github.com/TecharoHQ/zkauth/lib/zkp"
	"github.com/TecharoHQ/zkauth/lib/zkp/zkptest"
)

func TestRun(t *testing.T) {
	st := &selftest{
		identity: zkptest.NewIdentity(t),
		group:    zkptest.Mersenne127,
		secret:   big.NewInt(424242),
	}

	e := zkp.New(memory.New(t.Context()), zkp.Options{})

	if err := st.run(t.Context(), e); err != nil {
		t.Fatal(err)
	}
}

func TestParseFlags(t *testing.T) {
	*modulus, *generator, *secret, *identity = "23", "5", "6", "alice"
	t.Cleanup(func() {
		*modulus, *generator, *secret, *identity = "170141183460469231731687303715884105727", "3", "", ""
	})

	st, err := parseFlags()
	if err != nil {
		t.Fatal(err)
	}

	if st.identity != "alice" {
		t.Errorf("wanted identity alice, got: %q", st.identity)
	}

	if got := st.group.PublicKey(st.secret); got.Int64() != 8 {
		t.Errorf("wanted public key 8, got: %s", got)
	}

	e := zkp.New(memory.New(t.Context()), zkp.Options{})
	if err := st.run(t.Context(), e); err != nil {
		t.Fatal(err)
	}
}

func TestParseFlagsMalformed(t *testing.T) {
	*modulus = "not a number"
	t.Cleanup(func() { *modulus = "170141183460469231731687303715884105727" })

	if _, err := parseFlags(); !errors.Is(err, zkp.ErrMalformedInteger) {
		t.Fatalf("wanted %v, got: %v", zkp.ErrMalformedInteger, err)
	}
}

func TestRandomExponent(t *testing.T) {
	p := zkptest.Toy.Modulus

	for range 256 {
		n, err := randomExponent(p)
		if err != nil {
			t.Fatal(err)
		}

		if n.Sign() <= 0 || n.Cmp(new(big.Int).Sub(p, big.NewInt(1))) >= 0 {
			t.Fatalf("%s is outside of [1, %s)", n, new(big.Int).Sub(p, big.NewInt(1)))
		}
	}

	if _, err := randomExponent(big.NewInt(2)); !errors.Is(err, zkp.ErrInvalidParameters) {
		t.Fatalf("wanted %v, got: %v", zkp.ErrInvalidParameters, err)
	}
}
