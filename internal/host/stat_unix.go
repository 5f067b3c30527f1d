// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

// Fast stat binding using a raw stat(2) call.
//
// os.Stat allocates a FileInfo per call; the loader only needs to know
// whether a path is a file, a directory or missing, so this path returns
// the mode class directly.

package host

import (
	"golang.org/x/sys/unix"
)

// fastStat returns 0 for a file, 1 for a directory and -errno on failure.
var fastStat = func(path string) int {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		if errno, ok := err.(unix.Errno); ok {
			return -int(errno)
		}
		return -1
	}
	if st.Mode&unix.S_IFMT == unix.S_IFDIR {
		return 1
	}
	return 0
}
