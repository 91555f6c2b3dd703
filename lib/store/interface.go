package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when the store implementation cannot find a live
	// value for a given key. Expired and already taken values are not found.
	ErrNotFound = errors.New("store: key not found")

	// ErrUnavailable is returned when the backing datastore cannot be reached.
	ErrUnavailable = errors.New("store: backend unavailable")

	// ErrCantDecode is returned when a store adaptor cannot decode the store format
	// to a value used by the code.
	ErrCantDecode = errors.New("store: can't decode value")

	// ErrCantEncode is returned when a store adaptor cannot encode the value into
	// the format that the store uses.
	ErrCantEncode = errors.New("store: can't encode value")

	// ErrBadConfig is returned when a store adaptor's configuration is invalid.
	ErrBadConfig = errors.New("store: configuration is invalid")
)

// Interface defines the calls that zkauth uses to hold pending challenges in a
// local or remote datastore. This can be implemented with an in-memory,
// on-disk, or in-database storage backend.
//
// Values can only be read by taking them out of the store.
type Interface interface {
	// Set puts a value into the store that expires according to its expiry,
	// replacing any value already held for that key.
	Set(ctx context.Context, key string, value []byte, expiry time.Duration) error

	// Take atomically returns and removes the value of a key assuming that
	// value exists and has not expired. Of any number of concurrent Take calls
	// for the same key, at most one gets the value.
	Take(ctx context.Context, key string) ([]byte, error)
}

func z[T any]() T { return *new(T) }

// JSON wraps an Interface, storing values of type T as JSON under keys with
// an optional prefix.
type JSON[T any] struct {
	Underlying Interface
	Prefix     string
}

func (j *JSON[T]) Take(ctx context.Context, key string) (T, error) {
	if j.Prefix != "" {
		key = j.Prefix + key
	}

	data, err := j.Underlying.Take(ctx, key)
	if err != nil {
		return z[T](), err
	}

	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return z[T](), fmt.Errorf("%w: %w", ErrCantDecode, err)
	}

	return result, nil
}

func (j *JSON[T]) Set(ctx context.Context, key string, value T, expiry time.Duration) error {
	if j.Prefix != "" {
		key = j.Prefix + key
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCantEncode, err)
	}

	if err := j.Underlying.Set(ctx, key, data, expiry); err != nil {
		return err
	}

	return nil
}
