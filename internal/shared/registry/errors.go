// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPublished means no state has been published under the key.
	// This is the normal cold-start path, not a failure.
	ErrNotPublished = errors.New("shared state not published")

	// ErrIncompatible means the key holds a value this copy of the library
	// cannot adopt (for example one published by a different major version).
	ErrIncompatible = errors.New("published shared state has an incompatible type")

	// ErrAlreadyPublished means a publish lost to an earlier publisher.
	ErrAlreadyPublished = errors.New("shared state already published")
)

// LookupError describes a failed slot operation.
//
// Fields:
//   - Op: "load" or "publish"
//   - Key: The registry key involved
//   - Err: The underlying cause (one of the sentinel errors or a recovered panic)
type LookupError struct {
	Op  string
	Key string
	Err error
}

// Error implements the error interface.
//
// Format: op key: cause
func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying cause for errors.Is / errors.As.
func (e *LookupError) Unwrap() error {
	return e.Err
}
