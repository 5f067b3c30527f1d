// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package collab declares the collaborator surface that other subsystems
// populate on shared state after it is constructed.
//
// Shared state never calls these fields during construction. Capability
// probes read them lazily on first use, and every field may be nil: a probe
// that finds its collaborator missing resolves to "unsupported".
package collab

import (
	"bytes"
	"hash"
	"io/fs"
)

// FS is the filesystem read/stat surface.
type FS struct {
	ReadFile func(name string) ([]byte, error)
	Stat     func(name string) (fs.FileInfo, error)
	// ReadDir returns entry names, or nil when the directory is unreadable.
	ReadDir func(name string) []string
	IsFile  func(name string) bool
}

// Path is the directory-name / separator utility.
type Path struct {
	Dir       func(path string) string
	Separator string
}

// Process is the process-information accessor.
type Process struct {
	Cwd func() (string, error)
	// Version is the host runtime version string (e.g. "go1.24.3").
	Version string
}

// FSBinding holds low-level file fast paths.
type FSBinding struct {
	InternalModuleReadFile func(path string) (string, bool)
	// InternalModuleReadJSON returns the raw manifest and whether it
	// declares any of the selected top-level fields.
	InternalModuleReadJSON func(path string) (string, bool)
	// InternalModuleStat returns 0 for a file, 1 for a directory and a
	// negative value when the path does not exist.
	InternalModuleStat func(path string) int
}

// UtilBinding holds runtime-internal introspection hooks.
type UtilBinding struct {
	GetProxyDetails        func(v any) (target, handler any, ok bool)
	SafeGetenv             func(key string) string
	SetHiddenValue         func(obj any, key, value any) bool
	DecoratedPrivateSymbol any
}

// Binding groups the runtime-internal bindings.
type Binding struct {
	FS   *FSBinding
	Util *UtilBinding
}

// Module is the inbound collaborator namespace.
type Module struct {
	FS      *FS
	Path    *Path
	Process *Process
	Binding *Binding

	// Satisfies reports whether version satisfies the range constraint.
	Satisfies func(version, constraint string) bool
	// MaxSatisfying returns the highest version in versions that satisfies
	// constraint, or "".
	MaxSatisfying func(versions []string, constraint string) string

	NewHash   func() hash.Hash
	NewBuffer func(size int) *bytes.Buffer

	Inspect       func(v any) string
	InspectCustom string

	EncodeID func(id string) string
}
