// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package symbol provides process-unique identifiers that compare equal
// across independently loaded copies of the library.
//
// An ID is an interned handle of "<prefix>:<name>". Interning is process-wide
// (package unique), so two copies that derive an ID from the same prefix and
// name hold equal IDs even though neither saw the other's value, while IDs
// for different names never collide.
package symbol

import (
	"unique"
)

// Prefix namespaces every identifier owned by this library.
const Prefix = "sharedstate"

// ID is a process-unique identifier.
type ID struct {
	h unique.Handle[string]
}

// For returns the identifier for name under Prefix.
//
// Equal names always yield equal IDs.
func For(name string) ID {
	return ID{h: unique.Make(Prefix + ":" + name)}
}

// Key returns the full namespaced key ("sharedstate:<name>").
func (id ID) Key() string {
	return id.h.Value()
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return "Symbol(" + id.h.Value() + ")"
}

// Set is the fixed table of identifiers published on shared state.
type Set struct {
	Compile          ID
	Extension        ID
	Namespace        ID
	Package          ID
	RealProxyDetails ID
	RealLoad         ID
	Shared           ID
	Wrapper          ID
}

// NewSet derives the identifier table.
func NewSet() Set {
	return Set{
		Compile:          For("module._compile"),
		Extension:        For(`Module._extensions[".mjs"]`),
		Namespace:        For("namespace"),
		Package:          For("package"),
		RealProxyDetails: For("realGetProxyDetails"),
		RealLoad:         For("realRequire"),
		Shared:           For("shared"),
		Wrapper:          For("wrapper"),
	}
}

// All returns the table as name → ID, keyed by field name.
func (s Set) All() map[string]ID {
	return map[string]ID{
		"Compile":          s.Compile,
		"Extension":        s.Extension,
		"Namespace":        s.Namespace,
		"Package":          s.Package,
		"RealProxyDetails": s.RealProxyDetails,
		"RealLoad":         s.RealLoad,
		"Shared":           s.Shared,
		"Wrapper":          s.Wrapper,
	}
}
