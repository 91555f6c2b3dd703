package zkp

import "errors"

var (
	// ErrMalformedInteger is returned when a caller supplied number is not a
	// non-negative base 10 integer. It is a request validation failure, not an
	// authentication failure.
	ErrMalformedInteger = errors.New("zkp: malformed integer")

	// ErrMissingIdentity is returned when the identity is empty.
	ErrMissingIdentity = errors.New("zkp: missing identity")

	// ErrInvalidParameters is returned when the public parameters of an
	// identity can't be used for modular arithmetic at all.
	ErrInvalidParameters = errors.New("zkp: invalid public parameters")

	// ErrStoreUnavailable is returned when the challenge store can't be
	// reached. Issue is safe to retry. Verify is not: the caller has to run
	// the whole exchange again.
	ErrStoreUnavailable = errors.New("zkp: challenge store unavailable")
)
