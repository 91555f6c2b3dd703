package zkp

import (
	"math/big"

	"github.com/cronokirby/safenum"
)

type group struct {
	p *big.Int
	g *big.Int
}

// check reports whether g^s ≡ t·y^c (mod p). The exponentiations and the
// comparison run in constant time with respect to their inputs.
func (pp *publicParams) check(t, c, s *big.Int) bool {
	m := safenum.ModulusFromBytes(pp.p.Bytes())

	g := natMod(pp.g, m)
	y := natMod(pp.y, m)

	left := new(safenum.Nat).Exp(g, nat(s), m)

	yc := new(safenum.Nat).Exp(y, nat(c), m)
	right := new(safenum.Nat).ModMul(natMod(t, m), yc, m)

	return left.Eq(right) == 1
}

func nat(x *big.Int) *safenum.Nat {
	return new(safenum.Nat).SetBytes(x.Bytes())
}

func natMod(x *big.Int, m *safenum.Modulus) *safenum.Nat {
	return new(safenum.Nat).Mod(nat(x), m)
}

// Group holds the public group of an identity. Its methods are the prover's
// side of the exchange. They use math/big and are not constant time, so they
// belong in clients and tests, never next to a long-term secret on a server.
type Group struct {
	Modulus   *big.Int
	Generator *big.Int
}

// PublicKey returns y = g^x mod p for the secret x.
func (gr Group) PublicKey(x *big.Int) *big.Int {
	return new(big.Int).Exp(gr.Generator, x, gr.Modulus)
}

// Commit returns the commitment t = g^r mod p for the ephemeral secret r.
func (gr Group) Commit(r *big.Int) *big.Int {
	return new(big.Int).Exp(gr.Generator, r, gr.Modulus)
}

// Respond returns s = (r + c·x) mod (p-1).
func (gr Group) Respond(r, c, x *big.Int) *big.Int {
	order := new(big.Int).Sub(gr.Modulus, big.NewInt(1))

	s := new(big.Int).Mul(c, x)
	s.Add(s, r)
	return s.Mod(s, order)
}

// Params returns the public parameters a verifier needs for the public key y.
func (gr Group) Params(y *big.Int) PublicParams {
	return PublicParams{
		PublicKey: y.String(),
		Modulus:   gr.Modulus.String(),
		Generator: gr.Generator.String(),
	}
}
