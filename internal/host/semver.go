// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
	"golang.org/x/mod/semver"
)

// NormalizeVersion converts a Go toolchain version into plain semver.
//
// Examples:
//   - "go1.24.3" -> "1.24.3"
//   - "go1.21" -> "1.21.0"
//   - "go1.25rc1" -> "1.25.0" (pre-release tags compare as their release)
//   - "devel go1.26-abc123 Tue Jan 1" -> "1.26.0"
//   - "v2.3.4" -> "2.3.4"
//
// Returns "" when no version can be recovered.
func NormalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if rest, ok := strings.CutPrefix(v, "devel "); ok {
		v = ""
		for _, f := range strings.Fields(rest) {
			if strings.HasPrefix(f, "go1") {
				v = f
				break
			}
		}
	}
	v = strings.TrimPrefix(v, "go")
	v = strings.TrimPrefix(v, "v")

	// Keep the leading numeric dotted part only.
	if end := strings.IndexFunc(v, func(r rune) bool {
		return r != '.' && (r < '0' || r > '9')
	}); end >= 0 {
		v = v[:end]
	}
	v = strings.TrimSuffix(v, ".")
	if v == "" {
		return ""
	}

	canonical := semver.Canonical("v" + v)
	if canonical == "" {
		return ""
	}
	return strings.TrimPrefix(canonical, "v")
}

// Satisfies reports whether version satisfies the range constraint.
// Unparseable versions or constraints never satisfy.
func Satisfies(version, constraint string) bool {
	c, err := mmsemver.NewConstraint(constraint)
	if err != nil {
		return false
	}
	normalized := NormalizeVersion(version)
	if normalized == "" {
		return false
	}
	v, err := mmsemver.NewVersion(normalized)
	if err != nil {
		return false
	}
	return c.Check(v)
}

// MaxSatisfying returns the highest entry of versions that satisfies
// constraint, as given in versions, or "" when none does.
func MaxSatisfying(versions []string, constraint string) string {
	c, err := mmsemver.NewConstraint(constraint)
	if err != nil {
		return ""
	}

	var (
		best    *mmsemver.Version
		bestRaw string
	)
	for _, raw := range versions {
		normalized := NormalizeVersion(raw)
		if normalized == "" {
			continue
		}
		v, err := mmsemver.NewVersion(normalized)
		if err != nil || !c.Check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best, bestRaw = v, raw
		}
	}
	return bestRaw
}
