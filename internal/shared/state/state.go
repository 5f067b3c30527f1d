// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package state constructs the process-wide shared state object.
//
// Construction allocates every cache and scratch record and installs every
// capability probe, but evaluates nothing: a re-entrant access during or
// right after construction sees a complete object graph whose lazy values
// are simply unresolved.
//
// The two execution contexts are fixed at construction. UnsafeContext is the
// live host view; SafeContext is a snapshot produced by an immediately
// invoked anonymous function, so later mutation of the process environment
// cannot reach it.
package state

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/kolkov/sharedstate/internal/shared/cache"
	"github.com/kolkov/sharedstate/internal/shared/collab"
	"github.com/kolkov/sharedstate/internal/shared/hostctx"
	"github.com/kolkov/sharedstate/internal/shared/lazy"
	"github.com/kolkov/sharedstate/internal/shared/probe"
	"github.com/kolkov/sharedstate/internal/shared/symbol"
)

// State is the process-wide shared state.
//
// Capability flags (Support, FastPath, UtilBinding and the top-level
// deferred values) are read-only after first resolution. Entry, Memoize,
// Package, ModuleState, Env, PendingMetas and PendingWrites are mutable
// scratch space for collaborators.
type State struct {
	inited   atomic.Bool
	reloaded atomic.Bool

	Entry         Entry
	Env           *cache.Strings[string]
	FastPath      *probe.FastPath
	Memoize       Memoize
	Module        *collab.Module
	ModuleState   *ModuleState
	Package       *Package
	PendingMetas  *cache.Strings[any]
	PendingWrites *cache.Strings[any]
	SafeContext   hostctx.Context
	Support       *probe.Support
	Symbol        symbol.Set
	UnsafeContext hostctx.Context
	UtilBinding   *probe.UtilBinding

	customInspectKey *lazy.Value[string]
	nativeFuncName   *lazy.Value[string]
	projectRoot      *lazy.Value[string]
	projectModule    *lazy.Value[string]
	cacheNames       *lazy.Value[[]string]
	runtimeName      *lazy.Value[string]
}

// New constructs a fresh shared state. No probe runs here.
func New(log zerolog.Logger) *State {
	return newState(log, time.Now)
}

func newState(log zerolog.Logger, now func() time.Time) *State {
	mod := &collab.Module{}
	support := probe.NewSupport(mod, log)

	s := &State{
		Entry: Entry{
			Cache:       cache.NewWeak[ModuleObject, *EntryRecord](),
			SkipExports: cache.NewStrings[bool](),
		},
		Env:           cache.NewStrings[string](),
		FastPath:      probe.NewFastPath(mod, support, log),
		Memoize:       newMemoize(),
		Module:        mod,
		ModuleState:   &ModuleState{},
		Package:       newPackage(),
		PendingMetas:  cache.NewStrings[any](),
		PendingWrites: cache.NewStrings[any](),
		SafeContext:   func() hostctx.Context { return hostctx.Capture(hostctx.Live()) }(),
		Support:       support,
		Symbol:        symbol.NewSet(),
		UnsafeContext: hostctx.Live(),
		UtilBinding:   probe.NewUtilBinding(mod, log),
	}

	probe.Deferred(&s.customInspectKey, log, "customInspectKey", "inspect", func() string {
		return probe.CustomInspectKey(mod)
	})

	probe.Deferred(&s.nativeFuncName, log, "nativeFuncName", "", probe.NativeFuncName)

	probe.Deferred(&s.projectRoot, log, "projectRoot", "", func() string {
		return probe.ProjectRoot(mod)
	})

	probe.Deferred(&s.projectModule, log, "projectModule", "", func() string {
		return probe.ProjectModule(mod, s.ProjectRoot())
	})

	probe.Deferred(&s.cacheNames, log, "cacheNames", nil, func() []string {
		return probe.CacheNames(mod, s.ProjectRoot())
	})

	probe.Deferred(&s.runtimeName, log, "runtimeName", "", func() string {
		return probe.RuntimeName(mod, now())
	})

	return s
}

// Inited reports whether a consumer has observed this state as the live one.
func (s *State) Inited() bool { return s.inited.Load() }

// Reloaded reports whether the most recent access adopted this state from a
// different, already initialized instance.
func (s *State) Reloaded() bool { return s.reloaded.Load() }

// SetInited records the inited flag.
func (s *State) SetInited(v bool) { s.inited.Store(v) }

// SetReloaded records the reloaded flag.
func (s *State) SetReloaded(v bool) { s.reloaded.Store(v) }

// CustomInspectKey returns the name of the custom inspection hook.
func (s *State) CustomInspectKey() string { return s.customInspectKey.Get() }

// NativeFuncName returns the runtime symbol name of a probe marker method.
func (s *State) NativeFuncName() string { return s.nativeFuncName.Get() }

// ProjectRoot returns the nearest ancestor of the working directory that
// holds a go.mod file.
func (s *State) ProjectRoot() string { return s.projectRoot.Get() }

// ProjectModule returns the module path declared at ProjectRoot.
func (s *State) ProjectModule() string { return s.projectModule.Get() }

// CacheNames lists the project cache directory.
func (s *State) CacheNames() []string { return s.cacheNames.Get() }

// RuntimeName returns a short identifier for this process.
func (s *State) RuntimeName() string { return s.runtimeName.Get() }

// Values resolves the top-level deferred values and returns them by name.
func (s *State) Values() map[string]any {
	return map[string]any{
		"customInspectKey": s.CustomInspectKey(),
		"nativeFuncName":   s.NativeFuncName(),
		"projectRoot":      s.ProjectRoot(),
		"projectModule":    s.ProjectModule(),
		"cacheNames":       s.CacheNames(),
		"runtimeName":      s.RuntimeName(),
	}
}
