// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"expvar"
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/kolkov/sharedstate/internal/shared/state"
)

// Slot is a process-wide key/value slot visible to every copy of the
// library. It is the only contract between independently loaded copies.
type Slot interface {
	// Load returns the state published under key. It returns an error
	// wrapping ErrNotPublished when nothing is there.
	Load(key string) (*state.State, error)
	// Publish stores s under key. It returns an error wrapping
	// ErrAlreadyPublished when the key is taken.
	Publish(key string, s *state.State) error
}

// published is the expvar.Var stored under the registry key.
type published struct {
	s *state.State
}

// String renders the reconciliation flags as JSON for /debug/vars.
// It never resolves a capability probe.
func (p *published) String() string {
	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(struct {
		Inited   bool `json:"inited"`
		Reloaded bool `json:"reloaded"`
	}{p.s.Inited(), p.s.Reloaded()})
	if err != nil {
		return "{}"
	}
	return out
}

// expvarMu serializes Load/Publish issued by this copy of the library;
// the expvar namespace itself is already safe for concurrent use.
var expvarMu sync.Mutex

type expvarSlot struct{}

// Expvar returns the slot backed by the process-wide expvar namespace.
//
// expvar names are global to the process, so every copy of the library
// linked into one binary sees the same entries, and the published state
// appears under /debug/vars when an HTTP debug handler is mounted.
func Expvar() Slot {
	return expvarSlot{}
}

func (expvarSlot) Load(key string) (*state.State, error) {
	expvarMu.Lock()
	defer expvarMu.Unlock()

	v := expvar.Get(key)
	if v == nil {
		return nil, &LookupError{Op: "load", Key: key, Err: ErrNotPublished}
	}
	p, ok := v.(*published)
	if !ok || p.s == nil {
		return nil, &LookupError{
			Op:  "load",
			Key: key,
			Err: fmt.Errorf("%w: %T", ErrIncompatible, v),
		}
	}
	return p.s, nil
}

func (expvarSlot) Publish(key string, s *state.State) (err error) {
	expvarMu.Lock()
	defer expvarMu.Unlock()

	if expvar.Get(key) != nil {
		return &LookupError{Op: "publish", Key: key, Err: ErrAlreadyPublished}
	}

	// expvar.Publish panics on duplicate names; another copy of the library
	// can still win between Get and Publish.
	defer func() {
		if r := recover(); r != nil {
			err = &LookupError{
				Op:  "publish",
				Key: key,
				Err: fmt.Errorf("%w: %v", ErrAlreadyPublished, r),
			}
		}
	}()
	expvar.Publish(key, &published{s: s})
	return nil
}

// MemorySlot is a Slot backed by a private map.
//
// Instances sharing one MemorySlot behave like copies of the library
// sharing the process-wide registry, without touching global state.
type MemorySlot struct {
	mu      sync.Mutex
	entries map[string]any
}

// NewMemorySlot returns an empty slot private to its holders.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{entries: make(map[string]any)}
}

// Load implements Slot.
func (ms *MemorySlot) Load(key string) (*state.State, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	v, ok := ms.entries[key]
	if !ok {
		return nil, &LookupError{Op: "load", Key: key, Err: ErrNotPublished}
	}
	s, ok := v.(*state.State)
	if !ok || s == nil {
		return nil, &LookupError{
			Op:  "load",
			Key: key,
			Err: fmt.Errorf("%w: %T", ErrIncompatible, v),
		}
	}
	return s, nil
}

// Publish implements Slot.
func (ms *MemorySlot) Publish(key string, s *state.State) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, taken := ms.entries[key]; taken {
		return &LookupError{Op: "publish", Key: key, Err: ErrAlreadyPublished}
	}
	ms.entries[key] = s
	return nil
}

// Put stores an arbitrary value under key, replacing any entry. It lets
// callers simulate foreign publishers.
func (ms *MemorySlot) Put(key string, v any) {
	ms.mu.Lock()
	ms.entries[key] = v
	ms.mu.Unlock()
}
