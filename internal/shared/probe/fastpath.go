// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package probe

import (
	"github.com/rs/zerolog"

	"github.com/kolkov/sharedstate/internal/shared/collab"
	"github.com/kolkov/sharedstate/internal/shared/lazy"
)

// FastPath reports which file access fast paths are usable.
type FastPath struct {
	readFile     *lazy.Value[bool]
	readFileFast *lazy.Value[bool]
	stat         *lazy.Value[bool]

	flags []flag
}

// NewFastPath installs the fast path probes on top of support.
func NewFastPath(mod *collab.Module, support *Support, log zerolog.Logger) *FastPath {
	f := &FastPath{}

	Deferred(&f.readFile, log, "fastPath.readFile", false, func() bool {
		return support.InternalModuleReadFile()
	})

	Deferred(&f.readFileFast, log, "fastPath.readFileFast", false, func() bool {
		return support.InternalModuleReadJSON() || support.InternalModuleReadFile()
	})

	Deferred(&f.stat, log, "fastPath.stat", false, func() bool {
		return mod.Binding.FS.InternalModuleStat != nil
	})

	f.flags = []flag{
		flagOf("readFile", f.readFile),
		flagOf("readFileFast", f.readFileFast),
		flagOf("stat", f.stat),
	}
	return f
}

// ReadFile reports whether the raw file read binding can replace os reads.
func (f *FastPath) ReadFile() bool { return f.readFile.Get() }

// ReadFileFast reports whether any manifest read binding is available.
func (f *FastPath) ReadFileFast() bool { return f.readFileFast.Get() }

// Stat reports whether the fast stat binding is available.
func (f *FastPath) Stat() bool { return f.stat.Get() }

// All resolves every flag and returns them by name.
func (f *FastPath) All() map[string]any { return resolveAll(f.flags) }

// Resolved returns the names of flags that have already been computed.
func (f *FastPath) Resolved() []string { return resolvedNames(f.flags) }
