// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cache

import (
	"runtime"
	"sync"
	"weak"
)

// Weak is an object-keyed cache whose entries do not extend the lifetime of
// their keys.
//
// Entries are indexed by weak.Pointer, which compares equal for pointers to
// the same object. When a key is collected its entry stops being observable
// immediately (Get and Len skip dead pointers) and is removed from the
// underlying map by a runtime cleanup shortly after.
//
// Values must not reference their own key. A value holding its key strongly
// keeps the key reachable from the cache and the entry is never collected.
//
// Keys must point to heap objects with a distinct identity. Zero-size types
// share one address and are not valid keys.
//
// Thread Safety: All methods are safe for concurrent calls.
type Weak[K any, V any] struct {
	mu      sync.Mutex
	entries map[weak.Pointer[K]]V
}

// NewWeak creates an empty weak-keyed cache.
func NewWeak[K any, V any]() *Weak[K, V] {
	return &Weak[K, V]{entries: make(map[weak.Pointer[K]]V)}
}

// Get returns the value stored for key.
func (w *Weak[K, V]) Get(key *K) (V, bool) {
	var zero V
	if key == nil {
		return zero, false
	}
	w.mu.Lock()
	v, ok := w.entries[weak.Make(key)]
	w.mu.Unlock()
	return v, ok
}

// Has reports whether key has an entry.
func (w *Weak[K, V]) Has(key *K) bool {
	_, ok := w.Get(key)
	return ok
}

// Set stores v for key. A nil key is ignored.
func (w *Weak[K, V]) Set(key *K, v V) {
	if key == nil {
		return
	}
	wp := weak.Make(key)

	w.mu.Lock()
	_, exists := w.entries[wp]
	w.entries[wp] = v
	w.mu.Unlock()

	if !exists {
		runtime.AddCleanup(key, w.evict, wp)
	}
}

// Memo returns the value stored for key, computing and storing it with fn
// when absent. fn runs without the cache lock held; if two callers race,
// the first stored value wins and both return it. A nil key is never
// stored and fn's result is returned as is.
func (w *Weak[K, V]) Memo(key *K, fn func() V) V {
	if v, ok := w.Get(key); ok {
		return v
	}
	v := fn()
	if key == nil {
		return v
	}
	wp := weak.Make(key)

	w.mu.Lock()
	if existing, ok := w.entries[wp]; ok {
		w.mu.Unlock()
		return existing
	}
	w.entries[wp] = v
	w.mu.Unlock()

	runtime.AddCleanup(key, w.evict, wp)
	return v
}

// Delete removes the entry for key.
func (w *Weak[K, V]) Delete(key *K) {
	if key == nil {
		return
	}
	w.evict(weak.Make(key))
}

// Len returns the number of entries whose keys are still alive.
func (w *Weak[K, V]) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := 0
	for wp := range w.entries {
		if wp.Value() != nil {
			n++
		}
	}
	return n
}

func (w *Weak[K, V]) evict(wp weak.Pointer[K]) {
	w.mu.Lock()
	delete(w.entries, wp)
	w.mu.Unlock()
}
