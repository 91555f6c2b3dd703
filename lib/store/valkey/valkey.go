package valkey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TecharoHQ/zkauth/lib/store"
	valkey "github.com/redis/go-redis/v9"
)

// Store implements store.Interface on top of Valkey or Redis. Values expire
// natively with SET EX and are taken with GETDEL, so every instance sharing the
// same database sees one consistent set of pending challenges.
type Store struct {
	rdb valkey.UniversalClient
}

// Take fetches and deletes a key in one round trip. GETDEL needs Valkey, or
// Redis 6.2 or newer.
func (s *Store) Take(ctx context.Context, key string) ([]byte, error) {
	result, err := s.rdb.GetDel(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, valkey.Nil) {
			return nil, fmt.Errorf("%w: %q", store.ErrNotFound, key)
		}

		return nil, fmt.Errorf("%w: can't take %q from valkey: %w", store.ErrUnavailable, key, err)
	}

	return result, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, expiry time.Duration) error {
	if _, err := s.rdb.Set(ctx, key, value, expiry).Result(); err != nil {
		return fmt.Errorf("%w: can't set %q in valkey: %w", store.ErrUnavailable, key, err)
	}

	return nil
}
