// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hostctx models the two execution contexts held by shared state.
//
// The live context reads the process environment at call time, so any code
// that mutates the environment after startup (os.Setenv, os.Chdir) changes
// what it reports. The captured context is a snapshot taken once and never
// mutated afterwards; later changes to the process cannot reach it.
package hostctx

import (
	"os"
	"runtime"
	"slices"
	"strings"
)

// Context is a read-only view of the host process.
type Context interface {
	// Getenv returns the value of an environment variable.
	Getenv(key string) (string, bool)
	// Environ returns the environment as "key=value" pairs.
	Environ() []string
	// Cwd returns the working directory, or "" when it cannot be determined.
	Cwd() string
	// Args returns the command-line arguments.
	Args() []string
	// Platform returns GOOS/GOARCH.
	Platform() string
}

type live struct{}

// Live returns the context that reads the process directly.
func Live() Context {
	return live{}
}

func (live) Getenv(key string) (string, bool) { return os.LookupEnv(key) }
func (live) Environ() []string                { return os.Environ() }
func (live) Args() []string                   { return slices.Clone(os.Args) }
func (live) Platform() string                 { return runtime.GOOS + "/" + runtime.GOARCH }

func (live) Cwd() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return dir
}

type snapshot struct {
	env      map[string]string
	environ  []string
	cwd      string
	args     []string
	platform string
}

// Capture returns an immutable snapshot of ctx.
func Capture(ctx Context) Context {
	environ := ctx.Environ()
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if _, dup := env[k]; !dup {
			env[k] = v
		}
	}
	return &snapshot{
		env:      env,
		environ:  slices.Clone(environ),
		cwd:      ctx.Cwd(),
		args:     ctx.Args(),
		platform: ctx.Platform(),
	}
}

func (s *snapshot) Getenv(key string) (string, bool) {
	v, ok := s.env[key]
	return v, ok
}

func (s *snapshot) Environ() []string { return slices.Clone(s.environ) }
func (s *snapshot) Cwd() string       { return s.cwd }
func (s *snapshot) Args() []string    { return slices.Clone(s.args) }
func (s *snapshot) Platform() string  { return s.platform }
