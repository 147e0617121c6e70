package tagfile

import (
	"reflect"
	"sync"
)

var (
	registry   = make(map[reflect.Type]*bindPlan)
	registryMu sync.RWMutex
)

// planFor returns the cached bind plan for a struct type or builds a new one.
func planFor(rt reflect.Type) *bindPlan {
	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[rt]; ok {
		registryMu.RUnlock()
		return cached
	}
	registryMu.RUnlock()

	// Slow path: build and cache with write-lock
	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern
	if cached, ok := registry[rt]; ok {
		return cached
	}

	plan := buildBindPlan(rt)
	registry[rt] = plan
	return plan
}

// Reset clears the bind plan registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[reflect.Type]*bindPlan)
}
