// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shared provides the public API for the process-wide shared state.
//
// See doc.go for detailed documentation and examples.
package shared

import (
	"sync"

	"github.com/kolkov/sharedstate/internal/host"
	"github.com/kolkov/sharedstate/internal/logging"
	"github.com/kolkov/sharedstate/internal/shared/registry"
	"github.com/kolkov/sharedstate/internal/shared/state"
)

// State is the process-wide shared state.
type State = state.State

var (
	instanceOnce sync.Once
	instance     *registry.Instance

	populateOnce sync.Once
)

// Get returns the process-wide shared state.
//
// The first call in this copy of the library either adopts the state
// published by another copy or constructs and publishes a new one, then
// installs host collaborators that are still missing. Every later call
// returns the same pointer.
//
// Get never fails and is safe for concurrent use. [State.Inited] is false
// only on the call that constructed the state; [State.Reloaded] is true only
// on the call that adopted a state built by another copy.
func Get() *State {
	instanceOnce.Do(func() {
		instance = registry.NewInstance(registry.Expvar(), logging.Logger())
	})
	s := instance.GetShared()
	populateOnce.Do(func() {
		host.Populate(s)
	})
	return s
}
