// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package probe

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kolkov/sharedstate/internal/shared/collab"
	"github.com/kolkov/sharedstate/internal/shared/lazy"
	"github.com/kolkov/sharedstate/internal/shared/symbol"
)

// legacyRange selects runtimes that predate wrapped errors, where the
// decorated marker is a plain string key.
const legacyRange = "<1.13"

// UtilBinding holds values derived from runtime-internal util bindings.
type UtilBinding struct {
	errorDecoratedSymbol *lazy.Value[any]
	hiddenKeyType        *lazy.Value[string]

	flags []flag
}

// NewUtilBinding installs the util binding probes.
func NewUtilBinding(mod *collab.Module, log zerolog.Logger) *UtilBinding {
	u := &UtilBinding{}

	Deferred(&u.errorDecoratedSymbol, log, "utilBinding.errorDecoratedSymbol", nil, func() any {
		if mod.Satisfies(mod.Process.Version, legacyRange) {
			return symbol.Prefix + ":decorated"
		}
		return mod.Binding.Util.DecoratedPrivateSymbol
	})

	Deferred(&u.hiddenKeyType, log, "utilBinding.hiddenKeyType", "", func() string {
		if mod.Satisfies(mod.Process.Version, legacyRange) {
			return "string"
		}
		return fmt.Sprintf("%T", u.ErrorDecoratedSymbol())
	})

	u.flags = []flag{
		flagOf("errorDecoratedSymbol", u.errorDecoratedSymbol),
		flagOf("hiddenKeyType", u.hiddenKeyType),
	}
	return u
}

// ErrorDecoratedSymbol returns the key used to mark decorated errors.
func (u *UtilBinding) ErrorDecoratedSymbol() any { return u.errorDecoratedSymbol.Get() }

// HiddenKeyType returns the dynamic type name of hidden value keys.
func (u *UtilBinding) HiddenKeyType() string { return u.hiddenKeyType.Get() }

// All resolves every value and returns them by name.
func (u *UtilBinding) All() map[string]any { return resolveAll(u.flags) }

// Resolved returns the names of values that have already been computed.
func (u *UtilBinding) Resolved() []string { return resolvedNames(u.flags) }
