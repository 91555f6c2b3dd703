package bbolt

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/TecharoHQ/zkauth/lib/store"
	"github.com/TecharoHQ/zkauth/lib/store/storetest"
	"go.etcd.io/bbolt"
)

func TestImpl(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	t.Log(path)
	data, err := json.Marshal(Config{
		Path: path,
	})
	if err != nil {
		t.Fatal(err)
	}

	storetest.Common(t, Factory{}, json.RawMessage(data))
}

func openTestStore(t *testing.T) *Store {
	t.Helper()

	bdb, err := bbolt.Open(filepath.Join(t.TempDir(), "db"), 0600, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { bdb.Close() })

	return &Store{bdb: bdb}
}

func TestCleanup(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set(t.Context(), "stale", []byte("stale"), time.Millisecond); err != nil {
		t.Fatal(err)
	}

	if err := s.Set(t.Context(), "fresh", []byte("fresh"), time.Hour); err != nil {
		t.Fatal(err)
	}

	//nosleep:bypass the expiry is stored as a wall clock timestamp
	time.Sleep(5 * time.Millisecond)

	if err := s.cleanup(t.Context()); err != nil {
		t.Fatal(err)
	}

	if err := s.bdb.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte("stale")) != nil {
			t.Error("expired bucket survived cleanup")
		}

		if tx.Bucket([]byte("fresh")) == nil {
			t.Error("live bucket was removed by cleanup")
		}

		return nil
	}); err != nil {
		t.Fatal(err)
	}
}

func TestTakeRemovesExpiredBucket(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set(t.Context(), "stale", []byte("stale"), time.Millisecond); err != nil {
		t.Fatal(err)
	}

	//nosleep:bypass the expiry is stored as a wall clock timestamp
	time.Sleep(5 * time.Millisecond)

	if _, err := s.Take(t.Context(), "stale"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("wanted %v, got: %v", store.ErrNotFound, err)
	}

	if err := s.bdb.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte("stale")) != nil {
			t.Error("expired bucket was not dropped by take")
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
}

func TestClosedDatabaseIsUnavailable(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())

	data, err := json.Marshal(Config{Path: filepath.Join(t.TempDir(), "db")})
	if err != nil {
		t.Fatal(err)
	}

	s, err := Factory{}.Build(ctx, data)
	if err != nil {
		t.Fatal(err)
	}

	cancel()

	// the cleanup goroutine closes the database once ctx is done
	deadline := time.Now().Add(5 * time.Second)
	for {
		err := s.Set(t.Context(), "key", []byte("value"), time.Minute)
		if errors.Is(err, store.ErrUnavailable) {
			break
		}

		if time.Now().After(deadline) {
			t.Fatalf("wanted %v after cancellation, got: %v", store.ErrUnavailable, err)
		}

		//nosleep:bypass waiting on a background goroutine
		time.Sleep(10 * time.Millisecond)
	}

	if _, err := s.Take(t.Context(), "key"); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("wanted %v, got: %v", store.ErrUnavailable, err)
	}
}

func TestTakeDropsUndecodableBucket(t *testing.T) {
	s := openTestStore(t)

	if err := s.bdb.Update(func(tx *bbolt.Tx) error {
		bkt, err := tx.CreateBucket([]byte("corrupt"))
		if err != nil {
			return err
		}

		if err := bkt.Put([]byte("expiry"), []byte("not a timestamp")); err != nil {
			return err
		}

		return bkt.Put([]byte("data"), []byte("{}"))
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Take(t.Context(), "corrupt"); !errors.Is(err, store.ErrCantDecode) {
		t.Fatalf("wanted %v, got: %v", store.ErrCantDecode, err)
	}

	if _, err := s.Take(t.Context(), "corrupt"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("wanted corrupt bucket to be gone, got: %v", err)
	}
}
