// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package probe

import (
	"fmt"
	"go/parser"
	"go/token"
	"reflect"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kolkov/sharedstate/internal/shared/collab"
	"github.com/kolkov/sharedstate/internal/shared/lazy"
	"github.com/kolkov/sharedstate/internal/shared/symbol"
)

// marker is the dummy value inspected and embedded by several probes.
type marker struct {
	tag string
}

// Mark identifies the marker through its method set.
func (m marker) Mark() string { return m.tag }

func newMarker() marker { return marker{tag: symbol.Prefix} }

// Support holds runtime and collaborator capability flags.
//
// Wasm is resolved eagerly; every other flag is computed on first read.
type Support struct {
	wasm                       *lazy.Value[bool]
	generics                   *lazy.Value[bool]
	getProxyDetails            *lazy.Value[bool]
	inspectProxies             *lazy.Value[bool]
	internalModuleReadFile     *lazy.Value[bool]
	internalModuleReadJSON     *lazy.Value[bool]
	iterSeq                    *lazy.Value[bool]
	lookupShadowed             *lazy.Value[bool]
	nativeProxyReceiver        *lazy.Value[bool]
	proxiedClasses             *lazy.Value[bool]
	proxiedFunctionToStringTag *lazy.Value[bool]
	safeGetEnv                 *lazy.Value[bool]
	setHiddenValue             *lazy.Value[bool]
	weakPointers               *lazy.Value[bool]

	flags []flag
}

// NewSupport installs the support probes. No probe runs here.
//
// mod is read lazily; collaborators may populate it after this call.
func NewSupport(mod *collab.Module, log zerolog.Logger) *Support {
	s := &Support{
		wasm: lazy.Of(runtime.GOARCH == "wasm"),
	}

	Deferred(&s.generics, log, "generics", false, func() bool {
		const src = "package p\n\nfunc id[T any](v T) T { return v }\n"
		_, err := parser.ParseFile(token.NewFileSet(), "probe.go", src, parser.SkipObjectResolution)
		return err == nil
	})

	Deferred(&s.getProxyDetails, log, "getProxyDetails", false, func() bool {
		return mod.Binding.Util.GetProxyDetails != nil
	})

	Deferred(&s.inspectProxies, log, "inspectProxies", false, func() bool {
		inspected := mod.Inspect(newMarker())
		return strings.Contains(inspected, "marker") &&
			strings.Contains(inspected, symbol.Prefix)
	})

	Deferred(&s.internalModuleReadFile, log, "internalModuleReadFile", false, func() bool {
		return mod.Binding.FS.InternalModuleReadFile != nil
	})

	Deferred(&s.internalModuleReadJSON, log, "internalModuleReadJSON", false, func() bool {
		return mod.Binding.FS.InternalModuleReadJSON != nil
	})

	Deferred(&s.iterSeq, log, "iterSeq", false, func() bool {
		return mod.Satisfies(mod.Process.Version, ">=1.23")
	})

	Deferred(&s.lookupShadowed, log, "lookupShadowed", false, func() bool {
		// A field declared on the outer struct must win over the field
		// promoted from the embedded struct.
		type inner struct{ A int }
		type outer struct {
			inner
			A string
		}
		f, ok := reflect.TypeOf(outer{}).FieldByName("A")
		return ok && len(f.Index) == 1 && f.Type.Kind() == reflect.String
	})

	// Not guarded: the panic message decides the result.
	lazy.Install(&s.nativeProxyReceiver, func() (ok bool) {
		if mod == nil || mod.NewBuffer == nil {
			return false
		}
		defer func() {
			if r := recover(); r != nil {
				ok = !strings.Contains(fmt.Sprint(r), "Illegal")
				log.Debug().
					Str("probe", "nativeProxyReceiver").
					Interface("panic", r).
					Bool("result", ok).
					Msg("reflective receiver call panicked")
			}
		}()
		buf := mod.NewBuffer(0)
		out := reflect.ValueOf(buf).MethodByName("String").Call(nil)
		return out[0].String() == ""
	})

	Deferred(&s.proxiedClasses, log, "proxiedClasses", false, func() bool {
		t := reflect.StructOf([]reflect.StructField{{
			Name:      "Marker",
			Type:      reflect.TypeOf(marker{}),
			Anonymous: true,
		}})
		_, ok := t.MethodByName("Mark")
		return ok
	})

	Deferred(&s.proxiedFunctionToStringTag, log, "proxiedFunctionToStringTag", false, func() bool {
		var wrapped any = newMarker().Mark
		return reflect.TypeOf(wrapped).Kind() == reflect.Func
	})

	Deferred(&s.safeGetEnv, log, "safeGetEnv", false, func() bool {
		return mod.Binding.Util.SafeGetenv != nil
	})

	Deferred(&s.setHiddenValue, log, "setHiddenValue", false, func() bool {
		return mod.Binding.Util.SetHiddenValue != nil
	})

	Deferred(&s.weakPointers, log, "weakPointers", false, func() bool {
		return mod.Satisfies(mod.Process.Version, ">=1.24")
	})

	s.flags = []flag{
		flagOf("wasm", s.wasm),
		flagOf("generics", s.generics),
		flagOf("getProxyDetails", s.getProxyDetails),
		flagOf("inspectProxies", s.inspectProxies),
		flagOf("internalModuleReadFile", s.internalModuleReadFile),
		flagOf("internalModuleReadJSON", s.internalModuleReadJSON),
		flagOf("iterSeq", s.iterSeq),
		flagOf("lookupShadowed", s.lookupShadowed),
		flagOf("nativeProxyReceiver", s.nativeProxyReceiver),
		flagOf("proxiedClasses", s.proxiedClasses),
		flagOf("proxiedFunctionToStringTag", s.proxiedFunctionToStringTag),
		flagOf("safeGetEnv", s.safeGetEnv),
		flagOf("setHiddenValue", s.setHiddenValue),
		flagOf("weakPointers", s.weakPointers),
	}
	return s
}

// Wasm reports whether the process runs on a WebAssembly host.
func (s *Support) Wasm() bool { return s.wasm.Get() }

// Generics reports whether the Go parser accepts type parameters.
func (s *Support) Generics() bool { return s.generics.Get() }

// GetProxyDetails reports whether the proxy introspection binding exists.
func (s *Support) GetProxyDetails() bool { return s.getProxyDetails.Get() }

// InspectProxies reports whether the inspection utility exposes the
// contents of wrapped values.
func (s *Support) InspectProxies() bool { return s.inspectProxies.Get() }

// InternalModuleReadFile reports whether the raw file read binding exists.
func (s *Support) InternalModuleReadFile() bool { return s.internalModuleReadFile.Get() }

// InternalModuleReadJSON reports whether the manifest read binding exists.
func (s *Support) InternalModuleReadJSON() bool { return s.internalModuleReadJSON.Get() }

// IterSeq reports whether the host runtime supports range-over-func iterators.
func (s *Support) IterSeq() bool { return s.iterSeq.Get() }

// LookupShadowed reports whether outer fields shadow promoted fields.
func (s *Support) LookupShadowed() bool { return s.lookupShadowed.Get() }

// NativeProxyReceiver reports whether native methods can be invoked
// reflectively on a collaborator buffer.
func (s *Support) NativeProxyReceiver() bool { return s.nativeProxyReceiver.Get() }

// ProxiedClasses reports whether reflectively built types keep the method
// set of an embedded type.
func (s *Support) ProxiedClasses() bool { return s.proxiedClasses.Get() }

// ProxiedFunctionToStringTag reports whether a wrapped method value is
// still reported as a function.
func (s *Support) ProxiedFunctionToStringTag() bool { return s.proxiedFunctionToStringTag.Get() }

// SafeGetEnv reports whether the tamper-proof getenv binding exists.
func (s *Support) SafeGetEnv() bool { return s.safeGetEnv.Get() }

// SetHiddenValue reports whether the hidden value binding exists.
func (s *Support) SetHiddenValue() bool { return s.setHiddenValue.Get() }

// WeakPointers reports whether the host runtime provides weak pointers.
func (s *Support) WeakPointers() bool { return s.weakPointers.Get() }

// All resolves every flag and returns them by name.
func (s *Support) All() map[string]any { return resolveAll(s.flags) }

// Resolved returns the names of flags that have already been computed.
func (s *Support) Resolved() []string { return resolvedNames(s.flags) }
