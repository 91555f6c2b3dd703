package decaymap

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestImpl(t *testing.T) {
	dm := New[string, string]()

	dm.Set("test", "hi", 5*time.Minute)

	val, ok := dm.Take("test")
	if !ok {
		t.Error("somehow the test key was not set")
	}

	if val != "hi" {
		t.Errorf("wanted value %q, got: %q", "hi", val)
	}

	if _, ok := dm.Take("test"); ok {
		t.Error("got value even though it was already taken")
	}

	dm.Set("test", "hi", 5*time.Minute)
	dm.Set("test", "bye", 5*time.Minute)

	if val, _ := dm.Take("test"); val != "bye" {
		t.Errorf("wanted overwritten value %q, got: %q", "bye", val)
	}
}

func TestExpiry(t *testing.T) {
	now := time.Now()
	dm := New[string, int]()
	dm.now = func() time.Time { return now }

	dm.Set("short", 1, time.Second)
	dm.Set("long", 2, time.Hour)

	now = now.Add(time.Minute)

	if _, ok := dm.Take("short"); ok {
		t.Error("got value even though it expired")
	}

	if dm.Len() != 1 {
		t.Errorf("wanted 1 entry after taking an expired one, got %d", dm.Len())
	}

	dm.Set("short", 1, time.Second)
	now = now.Add(time.Minute)
	dm.Cleanup()

	if dm.Len() != 1 {
		t.Errorf("wanted cleanup to leave 1 entry, got %d", dm.Len())
	}

	if val, ok := dm.Take("long"); !ok || val != 2 {
		t.Errorf("wanted long-lived value 2, got %d (ok: %v)", val, ok)
	}
}

func TestTakeOnlyOnce(t *testing.T) {
	dm := New[string, int]()
	dm.Set("key", 42, time.Minute)

	var (
		wg      sync.WaitGroup
		winners atomic.Int32
	)

	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := dm.Take("key"); ok {
				winners.Add(1)
			}
		}()
	}

	wg.Wait()

	if got := winners.Load(); got != 1 {
		t.Fatalf("wanted exactly one successful take, got %d", got)
	}
}
