// Package decaymap is a generic in-memory map whose entries expire after a
// per-entry time to live.
package decaymap

import (
	"sync"
	"time"
)

func Zilch[T any]() T {
	var zero T
	return zero
}

// Impl is a lazy key->value map. It's a wrapper around a map and a mutex. If
// values exceed their time-to-live, they are pruned at Take or Cleanup time.
type Impl[K comparable, V any] struct {
	data map[K]decayMapEntry[V]
	lock sync.Mutex

	// now is swapped out in tests.
	now func() time.Time
}

type decayMapEntry[V any] struct {
	Value  V
	expiry time.Time
}

// New creates a new DecayMap of key type K and value type V.
//
// Key types must be comparable to work with maps.
func New[K comparable, V any]() *Impl[K, V] {
	return &Impl[K, V]{
		data: make(map[K]decayMapEntry[V]),
		now:  time.Now,
	}
}

// Set sets a key value pair in the map, replacing any previous value.
func (m *Impl[K, V]) Set(key K, value V, ttl time.Duration) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.data[key] = decayMapEntry[V]{
		Value:  value,
		expiry: m.now().Add(ttl),
	}
}

// Take removes a value from the map and returns it. The lookup and removal
// happen under the same lock, so concurrent callers never both observe the
// same entry. Expired values are removed and reported as missing.
func (m *Impl[K, V]) Take(key K) (V, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()

	entry, ok := m.data[key]
	if !ok {
		return Zilch[V](), false
	}

	delete(m.data, key)

	if m.now().After(entry.expiry) {
		return Zilch[V](), false
	}

	return entry.Value, true
}

// Cleanup removes all expired entries from the map.
func (m *Impl[K, V]) Cleanup() {
	m.lock.Lock()
	defer m.lock.Unlock()

	now := m.now()
	for key, entry := range m.data {
		if now.After(entry.expiry) {
			delete(m.data, key)
		}
	}
}

// Len returns the number of entries in the map, expired or not.
func (m *Impl[K, V]) Len() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.data)
}
