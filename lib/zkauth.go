package lib

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/TecharoHQ/zkauth/data"
	"github.com/TecharoHQ/zkauth/lib/config"
	"github.com/TecharoHQ/zkauth/lib/store"
	"github.com/TecharoHQ/zkauth/lib/zkp"
)

// LoadConfigOrDefault loads the config file at fname, or the built-in
// configuration if fname is empty.
func LoadConfigOrDefault(fname string) (*config.Config, error) {
	var fin io.ReadCloser
	var err error

	if fname != "" {
		fin, err = os.Open(fname)
		if err != nil {
			return nil, fmt.Errorf("can't open config file %s: %w", fname, err)
		}
	} else {
		fname = "(data)/zkauth.yaml"
		fin, err = data.DefaultConfig.Open("zkauth.yaml")
		if err != nil {
			return nil, fmt.Errorf("[unexpected] can't open builtin config file %s: %w", fname, err)
		}
	}

	defer func(fin io.ReadCloser) {
		err := fin.Close()
		if err != nil {
			slog.Error("failed to close config file", "file", fname, "err", err)
		}
	}(fin)

	return config.Load(fin, fname)
}

// New builds the configured challenge store and an Engine on top of it.
// Store background work stops when ctx is cancelled, so ctx should live as
// long as the Engine.
func New(ctx context.Context, c *config.Config, lg *slog.Logger) (*zkp.Engine, error) {
	if lg == nil {
		lg = slog.Default()
	}

	fac, ok := store.Get(c.Store.Backend)
	if !ok {
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStoreBackend, c.Store.Backend)
	}

	st, err := fac.Build(ctx, c.Store.Parameters)
	if err != nil {
		return nil, fmt.Errorf("can't build %s store: %w", c.Store.Backend, err)
	}

	lg.Debug("challenge store ready", "backend", c.Store.Backend, "ttl", c.TTL(), "bits", c.Challenge.Bits)

	return zkp.New(st, zkp.Options{
		TTL:       c.TTL(),
		KeyPrefix: c.KeyPrefix,
		Source:    zkp.RandomSource{Bits: c.Challenge.Bits},
		Logger:    lg,
	}), nil
}
