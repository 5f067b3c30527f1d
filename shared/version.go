// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shared

import (
	"runtime"

	"github.com/kolkov/sharedstate/internal/shared/registry"
)

// Version information for the shared state library.
const (
	// Version is the current library version.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info describes this copy of the library.
type Info struct {
	// Version is the library version string.
	Version string

	// Key is the registry key every copy publishes under.
	Key string

	// Runtime is the Go runtime version.
	Runtime string
}

// GetInfo returns information about this copy of the library.
//
// Example:
//
//	info := shared.GetInfo()
//	fmt.Printf("sharedstate %s (%s)\n", info.Version, info.Key)
func GetInfo() Info {
	return Info{
		Version: Version,
		Key:     registry.Key,
		Runtime: runtime.Version(),
	}
}
