package store_test

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/TecharoHQ/zkauth/lib/store"
	_ "github.com/TecharoHQ/zkauth/lib/store/all"
	"github.com/TecharoHQ/zkauth/lib/store/memory"
)

func TestJSON(t *testing.T) {
	type data struct {
		ID string `json:"id"`
	}

	st := memory.New(t.Context())
	db := store.JSON[data]{
		Underlying: st,
		Prefix:     "foo:",
	}

	if err := db.Set(t.Context(), "test", data{ID: t.Name()}, time.Minute); err != nil {
		t.Fatal(err)
	}

	got, err := db.Take(t.Context(), "test")
	if err != nil {
		t.Fatal(err)
	}

	if got.ID != t.Name() {
		t.Fatalf("got wrong data for key \"test\", wanted %q but got: %q", t.Name(), got.ID)
	}

	if _, err := db.Take(t.Context(), "test"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("wanted second take to fail with %v, got: %v", store.ErrNotFound, err)
	}

	if err := st.Set(t.Context(), "foo:test", []byte("}"), time.Minute); err != nil {
		t.Fatal(err)
	}

	if _, err := db.Take(t.Context(), "test"); !errors.Is(err, store.ErrCantDecode) {
		t.Fatalf("wanted invalid take to fail with %v, got: %v", store.ErrCantDecode, err)
	}

	// the undecodable value was still consumed
	if _, err := st.Take(t.Context(), "foo:test"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("wanted undecodable value to be gone, got: %v", err)
	}
}

func TestMethods(t *testing.T) {
	want := []string{"bbolt", "memory", "valkey"}
	if got := store.Methods(); !slices.Equal(got, want) {
		t.Fatalf("wanted backends %v, got: %v", want, got)
	}

	if _, ok := store.Get("taco salad"); ok {
		t.Fatal("unknown backend was found")
	}
}
