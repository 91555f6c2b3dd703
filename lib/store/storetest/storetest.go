// Package storetest holds the conformance suite every store backend must pass.
package storetest

import (
	"bytes"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TecharoHQ/zkauth/lib/store"
	"golang.org/x/sync/errgroup"
)

func Common(t *testing.T, f store.Factory, config json.RawMessage) {
	if err := f.Valid(config); err != nil {
		t.Fatal(err)
	}

	s, err := f.Build(t.Context(), config)
	if err != nil {
		t.Fatal(err)
	}

	for _, tt := range []struct {
		name string
		doer func(t *testing.T, s store.Interface) error
		err  error
	}{
		{
			name: "basic set take",
			doer: func(t *testing.T, s store.Interface) error {
				if _, err := s.Take(t.Context(), t.Name()); !errors.Is(err, store.ErrNotFound) {
					t.Errorf("wanted %s to not exist in store but it exists anyways", t.Name())
				}

				if err := s.Set(t.Context(), t.Name(), []byte(t.Name()), 5*time.Minute); err != nil {
					return err
				}

				val, err := s.Take(t.Context(), t.Name())
				if errors.Is(err, store.ErrNotFound) {
					t.Errorf("wanted %s to exist in store but it does not: %v", t.Name(), err)
				} else if err != nil {
					t.Error(err)
				}

				if !bytes.Equal(val, []byte(t.Name())) {
					t.Logf("want: %q", t.Name())
					t.Logf("got:  %q", string(val))
					t.Error("wrong value returned")
				}

				if _, err := s.Take(t.Context(), t.Name()); !errors.Is(err, store.ErrNotFound) {
					t.Error("wanted value to be gone after take but it exists anyways")
				}

				return nil
			},
		},
		{
			name: "set overwrites",
			doer: func(t *testing.T, s store.Interface) error {
				if err := s.Set(t.Context(), t.Name(), []byte("first"), 5*time.Minute); err != nil {
					return err
				}

				if err := s.Set(t.Context(), t.Name(), []byte("second"), 5*time.Minute); err != nil {
					return err
				}

				val, err := s.Take(t.Context(), t.Name())
				if err != nil {
					return err
				}

				if string(val) != "second" {
					t.Errorf("wanted overwritten value %q, got: %q", "second", string(val))
				}

				if _, err := s.Take(t.Context(), t.Name()); !errors.Is(err, store.ErrNotFound) {
					t.Error("overwritten value is still retrievable")
				}

				return nil
			},
		},
		{
			name: "keys are isolated",
			doer: func(t *testing.T, s store.Interface) error {
				a, b := t.Name()+":a", t.Name()+":b"

				if err := s.Set(t.Context(), a, []byte("a"), 5*time.Minute); err != nil {
					return err
				}

				if err := s.Set(t.Context(), b, []byte("b"), 5*time.Minute); err != nil {
					return err
				}

				if _, err := s.Take(t.Context(), a); err != nil {
					return err
				}

				val, err := s.Take(t.Context(), b)
				if err != nil {
					t.Errorf("taking %q removed %q: %v", a, b, err)
					return nil
				}

				if string(val) != "b" {
					t.Errorf("wanted %q, got: %q", "b", string(val))
				}

				return nil
			},
		},
		{
			name: "expires",
			doer: func(t *testing.T, s store.Interface) error {
				if err := s.Set(t.Context(), t.Name(), []byte(t.Name()), 150*time.Millisecond); err != nil {
					return err
				}

				//nosleep:bypass XXX(Xe): use Go's time faking thing in Go 1.25 when that is released.
				time.Sleep(155 * time.Millisecond)

				if _, err := s.Take(t.Context(), t.Name()); !errors.Is(err, store.ErrNotFound) {
					t.Errorf("wanted %s to not exist in store but it exists anyways", t.Name())
				}

				return nil
			},
		},
		{
			name: "concurrent takes have one winner",
			doer: func(t *testing.T, s store.Interface) error {
				if err := s.Set(t.Context(), t.Name(), []byte(t.Name()), 5*time.Minute); err != nil {
					return err
				}

				var winners atomic.Int32
				g, ctx := errgroup.WithContext(t.Context())

				for range 16 {
					g.Go(func() error {
						_, err := s.Take(ctx, t.Name())
						switch {
						case err == nil:
							winners.Add(1)
							return nil
						case errors.Is(err, store.ErrNotFound):
							return nil
						default:
							return err
						}
					})
				}

				if err := g.Wait(); err != nil {
					return err
				}

				if got := winners.Load(); got != 1 {
					t.Errorf("wanted exactly one successful take, got %d", got)
				}

				return nil
			},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.doer(t, s); !errors.Is(err, tt.err) {
				t.Logf("want: %v", tt.err)
				t.Logf("got:  %v", err)
				t.Error("wrong error")
			}
		})
	}
}
