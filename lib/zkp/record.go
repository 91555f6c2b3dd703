package zkp

import (
	"encoding/json"
	"math/big"
	"time"
)

// Record is a pending challenge: the prover's commitment and the challenge
// drawn for it. The store keeps it until it is taken or expires.
type Record struct {
	Commitment *big.Int  // t
	Challenge  *big.Int  // c
	IssuedAt   time.Time // informational, expiry is up to the store
}

// recordJSON is the persisted form. Integers are decimal strings so they
// survive any JSON implementation without losing precision.
type recordJSON struct {
	T        string    `json:"t"`
	C        string    `json:"c"`
	IssuedAt time.Time `json:"issuedAt"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		T:        r.Commitment.String(),
		C:        r.Challenge.String(),
		IssuedAt: r.IssuedAt,
	})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t, err := ParseInt("t", raw.T)
	if err != nil {
		return err
	}

	c, err := ParseInt("c", raw.C)
	if err != nil {
		return err
	}

	*r = Record{
		Commitment: t,
		Challenge:  c,
		IssuedAt:   raw.IssuedAt,
	}

	return nil
}
