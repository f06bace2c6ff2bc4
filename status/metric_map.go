// Package status is a lightweight atomic metrics registry. The buffer and
// orchestrator register counters once during construction and write to the
// cached pointers from their hot paths without further locking.
package status

import (
	"sort"
	"sync"
)

// MetricMap registers metrics of one atomic type under string keys. Get is
// the only way a key comes into existence; hot paths hold the returned
// pointer and never touch the map again.
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

// NewMetricMap creates an empty metric map
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{
		items: make(map[string]*T),
	}
}

// Lookup returns the metric registered under key, or false when the key
// has never been requested
func (m *MetricMap[T]) Lookup(key string) (*T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ptr, ok := m.items[key]
	return ptr, ok
}

// Get returns the metric for key, registering a zero-valued one on first
// request. Every later call for the same key returns the same pointer.
func (m *MetricMap[T]) Get(key string) *T {
	if ptr, ok := m.Lookup(key); ok {
		return ptr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller may have registered between the Lookup and the lock
	if ptr, ok := m.items[key]; ok {
		return ptr
	}

	ptr := new(T)
	m.items[key] = ptr
	return ptr
}

// Range calls fn for every registered metric in ascending key order. The
// pointers remain live; fn may read them with their atomic accessors.
func (m *MetricMap[T]) Range(fn func(key string, ptr *T)) {
	m.mu.RLock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	m.mu.RUnlock()

	sort.Strings(keys)
	for _, k := range keys {
		if ptr, ok := m.Lookup(k); ok {
			fn(k, ptr)
		}
	}
}

// Count returns the number of registered metrics
func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
