// Package zkp implements the server side of a Schnorr identification exchange
// over a prime-order multiplicative group.
//
// A prover holding the secret x behind the public key y = g^x mod p first
// sends a commitment t = g^r mod p for a fresh secret r. Issue draws a random
// challenge c, remembers (t, c) for that identity and returns c. The prover
// answers with s = r + c·x mod (p-1), and Verify checks g^s ≡ t·y^c (mod p).
//
// Pending challenges are single use. Verify takes the pending record out of
// the store atomically before doing anything else, so a challenge is gone
// after the first verification attempt no matter how that attempt ends.
package zkp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/TecharoHQ/zkauth"
	"github.com/TecharoHQ/zkauth/internal"
	"github.com/TecharoHQ/zkauth/lib/store"
)

// Options configure an Engine. The zero value is usable.
type Options struct {
	// TTL is how long an issued challenge stays verifiable. Defaults to
	// zkauth.DefaultChallengeTTL.
	TTL time.Duration

	// KeyPrefix is prepended to identities to form store keys. Defaults to
	// zkauth.DefaultKeyPrefix.
	KeyPrefix string

	// Source draws challenges. Defaults to a RandomSource of
	// zkauth.DefaultChallengeBits bits.
	Source ChallengeSource

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Engine issues challenges and verifies proofs. It keeps no state of its
// own beyond the store it was given and is safe for concurrent use.
type Engine struct {
	records *store.JSON[Record]
	ttl     time.Duration
	source  ChallengeSource
	lg      *slog.Logger
}

// New creates an Engine that keeps pending challenges in st.
func New(st store.Interface, opts Options) *Engine {
	if opts.TTL <= 0 {
		opts.TTL = zkauth.DefaultChallengeTTL
	}

	if opts.KeyPrefix == "" {
		opts.KeyPrefix = zkauth.DefaultKeyPrefix
	}

	if opts.Source == nil {
		opts.Source = RandomSource{Bits: zkauth.DefaultChallengeBits}
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Engine{
		records: &store.JSON[Record]{
			Underlying: st,
			Prefix:     opts.KeyPrefix,
		},
		ttl:    opts.TTL,
		source: opts.Source,
		lg:     opts.Logger,
	}
}

// Issue records the commitment t of identity and returns a fresh challenge
// c, both as base 10 integers. A challenge still pending for identity is
// replaced and can never be verified.
func (e *Engine) Issue(ctx context.Context, identity, commitment string) (string, error) {
	if identity == "" {
		return "", ErrMissingIdentity
	}

	t, err := ParseInt("commitment", commitment)
	if err != nil {
		return "", err
	}

	c, err := e.source.Challenge()
	if err != nil {
		return "", err
	}

	lg := e.lg.With(internal.IdentityAttr(identity))

	if err := e.records.Set(ctx, identity, Record{
		Commitment: t,
		Challenge:  c,
		IssuedAt:   time.Now(),
	}, e.ttl); err != nil {
		storeErrors.WithLabelValues("set").Inc()
		lg.Error("can't store challenge", "err", err)
		return "", fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	challengesIssued.Inc()
	lg.Debug("issued challenge", "ttl", e.ttl)

	return c.String(), nil
}

// Verify consumes the pending challenge of identity and reports whether
// response proves knowledge of the secret behind params.
//
// A missing, expired or already used challenge and a wrong proof all give
// false with a nil error, and callers must not tell them apart either. Errors
// are reserved for malformed input and an unreachable store. The pending
// challenge is consumed before the input is parsed, so even a malformed
// request burns it.
func (e *Engine) Verify(ctx context.Context, identity, response string, params PublicParams) (bool, error) {
	if identity == "" {
		return false, ErrMissingIdentity
	}

	lg := e.lg.With(internal.IdentityAttr(identity))

	rec, err := e.records.Take(ctx, identity)
	switch {
	case errors.Is(err, store.ErrNotFound):
		verifications.WithLabelValues("missing").Inc()
		lg.Debug("no pending challenge")
		return false, nil
	case errors.Is(err, store.ErrCantDecode):
		verifications.WithLabelValues("corrupt").Inc()
		lg.Error("pending challenge is corrupt, discarding it", "err", err)
		return false, nil
	case err != nil:
		storeErrors.WithLabelValues("take").Inc()
		lg.Error("can't take pending challenge", "err", err)
		return false, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	s, err := ParseInt("response", response)
	if err != nil {
		verifications.WithLabelValues("failure").Inc()
		return false, err
	}

	pp, err := params.parse()
	if err != nil {
		verifications.WithLabelValues("failure").Inc()
		return false, err
	}

	if !pp.check(rec.Commitment, rec.Challenge, s) {
		verifications.WithLabelValues("failure").Inc()
		lg.Debug("proof rejected")
		return false, nil
	}

	verifications.WithLabelValues("success").Inc()
	if !rec.IssuedAt.IsZero() {
		timeToVerify.Observe(time.Since(rec.IssuedAt).Seconds())
	}
	lg.Debug("proof accepted")

	return true, nil
}
