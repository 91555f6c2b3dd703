package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

var (
	registry map[string]Factory = map[string]Factory{}
	regLock  sync.RWMutex
)

// Factory builds a store backend from its JSON configuration. Backends register
// a Factory under their name from an init function.
type Factory interface {
	// Build creates a new store. Background work such as expiry cleanup stops
	// when ctx is cancelled.
	Build(ctx context.Context, config json.RawMessage) (Interface, error)

	// Valid checks the configuration without touching the backend.
	Valid(config json.RawMessage) error
}

func Register(name string, impl Factory) {
	regLock.Lock()
	defer regLock.Unlock()

	registry[name] = impl
}

func Get(name string) (Factory, bool) {
	regLock.RLock()
	defer regLock.RUnlock()
	result, ok := registry[name]
	return result, ok
}

// Methods returns the sorted names of every registered backend.
func Methods() []string {
	regLock.RLock()
	defer regLock.RUnlock()
	var result []string
	for method := range registry {
		result = append(result, method)
	}
	sort.Strings(result)
	return result
}
