// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package state

import (
	"net/url"
	"sync/atomic"

	"github.com/kolkov/sharedstate/internal/shared/cache"
)

// ModuleObject is the identity handle of a loaded module. Entry records are
// cached against it and disappear once the module object is dropped.
type ModuleObject struct {
	ID       string
	Filename string
	Exports  any
}

// EntryRecord is the per-module bookkeeping kept by the entry subsystem.
type EntryRecord struct {
	Name    string
	Type    string
	Builtin bool
	Data    any
}

// Func identifies a function object for masking and source-text shims.
type Func struct {
	Name string
	Fn   any
}

// Proxy identifies a wrapped value for proxy introspection caches.
type Proxy struct {
	Target  any
	Handler any
}

// Exports identifies a module namespace wrapped by the exports proxy.
type Exports struct {
	Names  []string
	Values map[string]any
}

// Entry holds the entry subsystem caches.
type Entry struct {
	// Cache is keyed by module identity (weak).
	Cache *cache.Weak[ModuleObject, *EntryRecord]
	// SkipExports is keyed by module ID (string).
	SkipExports *cache.Strings[bool]
}

// Memoize holds the independent memoization caches of surrounding
// subsystems. Each cache is either weak-keyed or string-keyed, fixed here.
type Memoize struct {
	BuiltinEntries           *cache.Strings[*EntryRecord]
	ModuleCJSResolveFilename *cache.Strings[string]
	ModuleESMResolveFilename *cache.Strings[string]
	ModuleFindPath           *cache.Strings[string]
	ModuleReadPackage        *cache.Strings[any]

	ShimFunctionPrototypeToString         *cache.Weak[Func, string]
	ShimProcessBindingUtilGetProxyDetails *cache.Weak[Proxy, [2]any]
	UtilGetProxyDetails                   *cache.Weak[Proxy, [2]any]

	UtilIsMJS         *cache.Strings[bool]
	UtilMaskFunction  *cache.Weak[Func, any]
	UtilMaxSatisfying *cache.Strings[string]
	UtilParseURL      *cache.Strings[*url.URL]
	UtilProxyExports  *cache.Weak[Exports, any]
	UtilSatisfies     *cache.Strings[bool]
	UtilUnwrapProxy   *cache.Weak[Proxy, any]
}

func newMemoize() Memoize {
	return Memoize{
		BuiltinEntries:           cache.NewStrings[*EntryRecord](),
		ModuleCJSResolveFilename: cache.NewStrings[string](),
		ModuleESMResolveFilename: cache.NewStrings[string](),
		ModuleFindPath:           cache.NewStrings[string](),
		ModuleReadPackage:        cache.NewStrings[any](),

		ShimFunctionPrototypeToString:         cache.NewWeak[Func, string](),
		ShimProcessBindingUtilGetProxyDetails: cache.NewWeak[Proxy, [2]any](),
		UtilGetProxyDetails:                   cache.NewWeak[Proxy, [2]any](),

		UtilIsMJS:         cache.NewStrings[bool](),
		UtilMaskFunction:  cache.NewWeak[Func, any](),
		UtilMaxSatisfying: cache.NewStrings[string](),
		UtilParseURL:      cache.NewStrings[*url.URL](),
		UtilProxyExports:  cache.NewWeak[Exports, any](),
		UtilSatisfies:     cache.NewStrings[bool](),
		UtilUnwrapProxy:   cache.NewWeak[Proxy, any](),
	}
}

// ModuleState is scratch state for the loader. The core only allocates it.
type ModuleState struct {
	ParseOnly atomic.Bool
	Parsing   atomic.Bool
	// RequireDepth counts nested load calls to detect re-entrancy.
	RequireDepth atomic.Int32
	// Stat caches stat results while a load is in progress; nil otherwise.
	Stat atomic.Pointer[cache.Strings[int]]
}

// Package holds package-manifest state shared by the loader.
type Package struct {
	Default atomic.Value
	Dir     *cache.Strings[any]
	Root    *cache.Strings[string]
	State   *cache.Strings[any]
}

func newPackage() *Package {
	return &Package{
		Dir:   cache.NewStrings[any](),
		Root:  cache.NewStrings[string](),
		State: cache.NewStrings[any](),
	}
}
