package bbolt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/TecharoHQ/zkauth/lib/store"
	"go.etcd.io/bbolt"
)

// Sentinel error values used for testing and in admin-visible error messages.
var (
	ErrBucketDoesNotExist = errors.New("bbolt: bucket does not exist")
)

// Store implements store.Interface backed by bbolt[1].
//
// Every value belongs to its own bucket, named after the key, with two keys:
//
// 1. data - The raw data, usually in JSON
// 2. expiry - The expiry time formatted as a time.RFC3339Nano timestamp string
//
// This lets the cleanup phase iterate over every bucket in the database and
// only scan the expiry times without having to decode the entire record.
//
// Take reads and deletes a bucket inside one read-write transaction. bbolt
// serializes read-write transactions, so two callers can never both read the
// same value.
//
// bbolt is not suitable for environments where multiple instances of zkauth
// need to read from and write to the same backend store. For that, use the
// valkey storage backend.
//
// [1]: https://github.com/etcd-io/bbolt
type Store struct {
	bdb *bbolt.DB
}

// Take a value out of the datastore.
//
// Because each value is stored in its own bucket with data and expiry keys,
// two reads are required before the bucket is dropped:
//
// 1. Get the expiry key, parse as time.RFC3339Nano. If the key has expired, drop it and return a "key not found" error.
// 2. Get the data key, copy into the result byteslice, return it.
func (s *Store) Take(ctx context.Context, key string) ([]byte, error) {
	var (
		result  []byte
		takeErr error
	)

	if err := s.bdb.Update(func(tx *bbolt.Tx) error {
		itemBucket := tx.Bucket([]byte(key))
		if itemBucket == nil {
			takeErr = fmt.Errorf("%w: %q", store.ErrNotFound, key)
			return nil
		}

		expiryStr := itemBucket.Get([]byte("expiry"))
		dataStr := itemBucket.Get([]byte("data"))

		if expiryStr == nil || dataStr == nil {
			takeErr = fmt.Errorf("[unexpected] %w: %q (expiry or data is nil)", store.ErrNotFound, key)
		} else if expiry, err := time.Parse(time.RFC3339Nano, string(expiryStr)); err != nil {
			takeErr = fmt.Errorf("[unexpected] %w: %w", store.ErrCantDecode, err)
		} else if time.Now().After(expiry) {
			takeErr = fmt.Errorf("%w: %q", store.ErrNotFound, key)
		} else {
			// bucket memory is only valid for the life of the transaction
			result = make([]byte, len(dataStr))
			copy(result, dataStr)
		}

		// the bucket goes away even when it can't be read: returning an error
		// here would roll the deletion back, so takeErr is reported after commit
		if err := tx.DeleteBucket([]byte(key)); err != nil {
			return fmt.Errorf("can't delete bucket %q: %w", key, err)
		}

		return nil
	}); err != nil {
		return nil, wrapClosed(err)
	}

	if takeErr != nil {
		return nil, takeErr
	}

	return result, nil
}

// Set a value into the store with a given expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte, expiry time.Duration) error {
	expires := time.Now().Add(expiry)

	return wrapClosed(s.bdb.Update(func(tx *bbolt.Tx) error {
		valueBkt, err := tx.CreateBucketIfNotExists([]byte(key))
		if err != nil {
			return fmt.Errorf("%w: %w: %q (create bucket)", store.ErrCantEncode, err, key)
		}

		if err := valueBkt.Put([]byte("expiry"), []byte(expires.Format(time.RFC3339Nano))); err != nil {
			return fmt.Errorf("%w: %q (expiry)", store.ErrCantEncode, key)
		}

		if err := valueBkt.Put([]byte("data"), value); err != nil {
			return fmt.Errorf("%w: %q (data)", store.ErrCantEncode, key)
		}

		return nil
	}))
}

func wrapClosed(err error) error {
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
	}

	return err
}

func (s *Store) cleanup(ctx context.Context) error {
	now := time.Now()

	return s.bdb.Update(func(tx *bbolt.Tx) error {
		var expired [][]byte

		if err := tx.ForEach(func(key []byte, valueBkt *bbolt.Bucket) error {
			expiryStr := valueBkt.Get([]byte("expiry"))
			if expiryStr == nil {
				slog.Warn("while running cleanup, expiry is not set somehow, file a bug?", "key", string(key))
				return nil
			}

			expiry, err := time.Parse(time.RFC3339Nano, string(expiryStr))
			if err != nil {
				return fmt.Errorf("[unexpected] %w in bucket %q: %w", store.ErrCantDecode, string(key), err)
			}

			if now.After(expiry) {
				expired = append(expired, append([]byte(nil), key...))
			}

			return nil
		}); err != nil {
			return err
		}

		// buckets can't be deleted while ForEach is iterating over them
		for _, key := range expired {
			if err := tx.DeleteBucket(key); err != nil {
				return fmt.Errorf("%w: %q: %w", ErrBucketDoesNotExist, string(key), err)
			}
		}

		return nil
	})
}

func (s *Store) cleanupThread(ctx context.Context) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := s.bdb.Close(); err != nil {
				slog.Error("error closing bbolt database", "err", err)
			}
			return
		case <-t.C:
			if err := s.cleanup(ctx); err != nil {
				slog.Error("error during bbolt cleanup", "err", err)
			}
		}
	}
}
