// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !unix

// Platforms without the raw stat binding leave the fast path unset, which
// resolves the stat fast path probe to false.

package host

var fastStat func(path string) int
