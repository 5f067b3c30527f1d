// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package probe

import (
	"github.com/rs/zerolog"

	"github.com/kolkov/sharedstate/internal/shared/lazy"
)

// Guard wraps fn so that a panic resolves to fallback instead of escaping.
func Guard[T any](log zerolog.Logger, name string, fallback T, fn func() T) func() T {
	return func() (v T) {
		defer func() {
			if r := recover(); r != nil {
				log.Debug().
					Str("probe", name).
					Interface("panic", r).
					Msg("capability probe failed, using fallback")
				v = fallback
			}
		}()
		return fn()
	}
}

// Deferred installs a guarded probe into slot.
func Deferred[T any](slot **lazy.Value[T], log zerolog.Logger, name string, fallback T, fn func() T) {
	lazy.Install(slot, Guard(log, name, fallback, fn))
}

// flag is one named probe in a set, used for enumeration.
type flag struct {
	name string
	get  func() any
	done func() bool
}

func flagOf[T any](name string, v *lazy.Value[T]) flag {
	return flag{
		name: name,
		get:  func() any { return v.Get() },
		done: v.Resolved,
	}
}

func resolveAll(flags []flag) map[string]any {
	out := make(map[string]any, len(flags))
	for _, f := range flags {
		out[f.name] = f.get()
	}
	return out
}

func resolvedNames(flags []flag) []string {
	var names []string
	for _, f := range flags {
		if f.done() {
			names = append(names, f.name)
		}
	}
	return names
}
