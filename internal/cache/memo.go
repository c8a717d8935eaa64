// Package cache provides a process-lifetime, write-once memoization map.
// Entries are computed at most once per key and are never invalidated or
// overwritten.
package cache

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memo maps string keys to string values with get-or-compute semantics.
// The zero value is not usable; construct with NewMemo.
type Memo struct {
	mu      sync.RWMutex
	entries map[string]string
	group   singleflight.Group
}

// NewMemo returns an empty Memo.
func NewMemo() *Memo {
	return &Memo{entries: make(map[string]string)}
}

// GetOrCompute returns the cached value for key, computing and storing it on
// the first call. Concurrent callers for the same key share a single
// in-flight compute; computes for different keys run independently, so a slow
// fetch for one key never stalls another. A failed compute stores nothing;
// the next call for the same key computes again.
func (m *Memo) GetOrCompute(key string, compute func() (string, error)) (string, error) {
	m.mu.RLock()
	v, ok := m.entries[key]
	m.mu.RUnlock()
	if ok {
		return v, nil
	}

	res, err, _ := m.group.Do(key, func() (any, error) {
		// A previous flight may have stored the entry between our cache
		// miss and joining the group.
		m.mu.RLock()
		v, ok := m.entries[key]
		m.mu.RUnlock()
		if ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return "", err
		}
		m.mu.Lock()
		m.entries[key] = v
		m.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return "", err
	}
	return res.(string), nil
}

// Len reports how many keys have been computed so far.
func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
