// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host populates the shared state collaborator namespace from the
// real host process.
//
// Populate fills only fields that are still nil, so it is idempotent and
// never overrides collaborators installed by another subsystem or by an
// earlier copy of the library that published the same state.
//
// Bindings that the host cannot provide are left nil on purpose; the
// corresponding capability probes then report "unsupported":
//   - InternalModuleStat: only on unix (golang.org/x/sys/unix)
//   - SetHiddenValue: Go values have no hidden per-object slots
package host

import (
	"bytes"
	"crypto/md5"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/davecgh/go-spew/spew"

	"github.com/kolkov/sharedstate/internal/shared/collab"
	"github.com/kolkov/sharedstate/internal/shared/state"
	"github.com/kolkov/sharedstate/internal/shared/symbol"
)

// populateMu serializes Populate calls made by this copy of the library.
var populateMu sync.Mutex

// inspectConfig renders values for the Inspect collaborator.
var inspectConfig = spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                2,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Populate installs host collaborators on s.Module.
//
// It must run before capability probes are read concurrently; the public
// entry point calls it once per copy right after GetShared.
func Populate(s *state.State) {
	populateMu.Lock()
	defer populateMu.Unlock()

	mod := s.Module

	if mod.FS == nil {
		mod.FS = newFS()
	}
	if mod.Path == nil {
		mod.Path = &collab.Path{
			Dir:       filepath.Dir,
			Separator: string(filepath.Separator),
		}
	}
	if mod.Process == nil {
		mod.Process = newProcess()
	}
	if mod.Satisfies == nil {
		mod.Satisfies = func(version, constraint string) bool {
			return s.Memoize.UtilSatisfies.Memo(version+"\x00"+constraint, func() bool {
				return Satisfies(version, constraint)
			})
		}
	}
	if mod.MaxSatisfying == nil {
		mod.MaxSatisfying = func(versions []string, constraint string) string {
			key := strings.Join(versions, ",") + "\x00" + constraint
			return s.Memoize.UtilMaxSatisfying.Memo(key, func() string {
				return MaxSatisfying(versions, constraint)
			})
		}
	}
	if mod.NewHash == nil {
		mod.NewHash = md5.New
	}
	if mod.NewBuffer == nil {
		mod.NewBuffer = func(size int) *bytes.Buffer {
			return bytes.NewBuffer(make([]byte, 0, size))
		}
	}
	if mod.Inspect == nil {
		mod.Inspect = func(v any) string { return inspectConfig.Sdump(v) }
	}
	if mod.InspectCustom == "" {
		mod.InspectCustom = "String"
	}
	if mod.EncodeID == nil {
		mod.EncodeID = EncodeID
	}
	if mod.Binding == nil {
		mod.Binding = &collab.Binding{}
	}
	if mod.Binding.FS == nil {
		mod.Binding.FS = newFSBinding()
	}
	if mod.Binding.Util == nil {
		mod.Binding.Util = newUtilBinding(s)
	}
}

func newProcess() *collab.Process {
	return &collab.Process{
		Cwd:     cwd,
		Version: runtime.Version(),
	}
}

func newUtilBinding(s *state.State) *collab.UtilBinding {
	return &collab.UtilBinding{
		GetProxyDetails: func(v any) (any, any, bool) {
			p, ok := v.(*state.Proxy)
			if !ok || p == nil {
				return nil, nil, false
			}
			d := s.Memoize.UtilGetProxyDetails.Memo(p, func() [2]any {
				return [2]any{p.Target, p.Handler}
			})
			return d[0], d[1], true
		},
		SafeGetenv: func(key string) string {
			v, _ := s.SafeContext.Getenv(key)
			return v
		},
		DecoratedPrivateSymbol: symbol.For("decorated"),
	}
}

// EncodeID maps id onto identifier-safe characters.
func EncodeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, id)
}
