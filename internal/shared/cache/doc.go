// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cache provides the two keyed containers used by shared state.
//
// Every cache in shared state picks exactly one key-ownership discipline at
// declaration, and the container type makes that choice visible:
//
//   - [Weak] is keyed by object identity. An entry never keeps its key alive;
//     once the key is unreachable elsewhere the entry disappears. Use it for
//     hot paths where many distinct objects pass through once each.
//   - [Strings] is keyed by string and exposes only entries that were stored
//     in it. There are no inherited members, so keys such as "__proto__",
//     "constructor" or "toString" are ordinary keys and a lookup on an empty
//     store always reports absent.
//
// Both containers are safe for concurrent use.
package cache
