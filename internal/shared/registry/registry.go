// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package registry reconciles independently loaded copies of the library
// into a single shared state.
//
// Each copy owns an Instance holding a local handle. All copies share one
// Slot, a process-wide key/value registry, under the well-known Key.
// GetShared resolves the handle in three steps:
//
//  1. Local handle present: mark it inited, clear reloaded, return it.
//  2. Slot holds a state published by another copy: mark it reloaded,
//     adopt it as the local handle, return it.
//  3. Otherwise construct a fresh state, publish it, adopt it, return it.
//
// Only copies built from the same package types can reconcile. A copy of a
// different major version sees the published value as ErrIncompatible and
// keeps a private state.
//
// GetShared is total. Lookup failures of any kind are logged and treated as
// "not found"; a lost publish race adopts the winner.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kolkov/sharedstate/internal/shared/state"
	"github.com/kolkov/sharedstate/internal/shared/symbol"
)

// Key is the well-known registry key shared by every copy of the library.
var Key = symbol.For("shared").Key()

// Instance is one copy's view of the shared state registry.
//
// Thread Safety: GetShared is safe for concurrent calls.
type Instance struct {
	mu    sync.Mutex
	slot  Slot
	key   string
	local *state.State
	log   zerolog.Logger

	newState func(zerolog.Logger) *state.State
}

// NewInstance creates an instance bound to slot under Key.
func NewInstance(slot Slot, log zerolog.Logger) *Instance {
	return &Instance{
		slot:     slot,
		key:      Key,
		log:      log.With().Str("component", "registry").Logger(),
		newState: state.New,
	}
}

// GetShared returns the process-wide shared state. It never fails.
func (in *Instance) GetShared() *state.State {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.local != nil {
		in.local.SetInited(true)
		in.local.SetReloaded(false)
		return in.local
	}

	if s, err := in.load(); err == nil {
		s.SetReloaded(true)
		in.local = s
		in.log.Debug().Str("key", in.key).Msg("adopted shared state from another instance")
		return s
	} else if !errors.Is(err, ErrNotPublished) {
		in.log.Debug().Err(err).Str("key", in.key).Msg("shared state lookup failed, constructing")
	}

	s := in.newState(in.log)
	if err := in.publish(s); err != nil {
		// Another instance published between our lookup and publish.
		if winner, lerr := in.load(); lerr == nil {
			winner.SetReloaded(true)
			in.local = winner
			in.log.Debug().Str("key", in.key).Msg("lost publish race, adopted winner")
			return winner
		}
		in.log.Warn().Err(err).Str("key", in.key).Msg("shared state not published, continuing with private state")
	} else {
		in.log.Debug().Str("key", in.key).Msg("constructed shared state")
	}

	in.local = s
	return s
}

// load wraps Slot.Load so that a panicking slot reads as a lookup failure.
func (in *Instance) load() (s *state.State, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, &LookupError{Op: "load", Key: in.key, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return in.slot.Load(in.key)
}

func (in *Instance) publish(s *state.State) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &LookupError{Op: "publish", Key: in.key, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return in.slot.Publish(in.key, s)
}
