// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package probe defines the capability probes installed on shared state.
//
// A probe is a pure, zero-argument check of one host runtime fact. Probes are
// installed as lazy values: constructing a probe set runs nothing, and each
// check runs at most once per process on first read.
//
// Probe sets:
//   - [Support]: runtime and collaborator capabilities
//   - [FastPath]: which file fast paths are usable
//   - [UtilBinding]: values derived from runtime-internal bindings
//
// Some probes read sibling probes (FastPath reads Support, HiddenKeyType
// reads ErrorDecoratedSymbol). Dependencies always point from derived to
// primitive and form a DAG, so evaluation order follows read order.
//
// Failure Model:
//
// A probe never panics past its boundary. Missing collaborators (nil
// pointers, nil funcs) and internal failures are recovered and resolve the
// probe to its fallback (false, "" or nil). The recovered value is logged at
// debug level.
package probe
