// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cache

import (
	"slices"
	"sync"
)

// Strings is a string-keyed store that only ever reports its own entries.
//
// Lookups never fall back to any shared or inherited table, so a key named
// after a built-in member ("__proto__", "constructor", "hasOwnProperty") is
// absent until it is explicitly stored.
//
// Thread Safety: All methods are safe for concurrent calls.
type Strings[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
}

// NewStrings creates an empty string-keyed store.
func NewStrings[V any]() *Strings[V] {
	return &Strings[V]{entries: make(map[string]V)}
}

// Get returns the value stored for key.
func (s *Strings[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	v, ok := s.entries[key]
	s.mu.RUnlock()
	return v, ok
}

// Has reports whether key has an entry.
func (s *Strings[V]) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Set stores v for key.
func (s *Strings[V]) Set(key string, v V) {
	s.mu.Lock()
	s.entries[key] = v
	s.mu.Unlock()
}

// Memo returns the value stored for key, computing and storing it with fn
// when absent. fn runs without the store lock held; if two callers race,
// the first stored value wins and both return it.
func (s *Strings[V]) Memo(key string, fn func() V) V {
	if v, ok := s.Get(key); ok {
		return v
	}
	v := fn()

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.entries[key]; ok {
		return existing
	}
	s.entries[key] = v
	return v
}

// Delete removes the entry for key.
func (s *Strings[V]) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len returns the number of entries.
func (s *Strings[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys returns the stored keys in sorted order.
func (s *Strings[V]) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	slices.Sort(keys)
	return keys
}
