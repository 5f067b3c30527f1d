// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lazy implements compute-once slots for deferred shared state values.
//
// A Value starts out holding a zero-argument producer. The first Get runs the
// producer, stores its result in place of the producer and returns it; every
// later Get is a plain read of the stored result. The producer is dropped after
// it runs so anything it captured can be collected.
//
// Values form an implicit dependency graph: a producer may call Get on other
// Values. Evaluation order is decided by read order, not declaration order.
// The graph must be acyclic. No cycle detection is done: a producer that
// (directly or indirectly) reads its own Value deadlocks inside sync.Once,
// and every later reader of that Value deadlocks with it.
//
// Producers are expected to be total. A producer that panics leaves the Value
// resolved to the zero value of T and the panic propagates to that first caller
// only. Use a recovering wrapper (see package probe) for producers that touch
// the host environment.
package lazy

import (
	"sync"
	"sync/atomic"
)

// Value is a compute-once slot.
//
// Thread Safety: Get is safe for concurrent calls. Concurrent first reads
// block until the single producer run finishes.
type Value[T any] struct {
	once     sync.Once
	fn       func() T
	v        T
	resolved atomic.Bool
}

// New returns a Value that runs fn on first read.
func New[T any](fn func() T) *Value[T] {
	return &Value[T]{fn: fn}
}

// Of returns an already resolved Value holding v.
func Of[T any](v T) *Value[T] {
	d := &Value[T]{v: v}
	d.once.Do(func() {})
	d.resolved.Store(true)
	return d
}

// Get returns the memoized result, running the producer on first call.
func (d *Value[T]) Get() T {
	d.once.Do(d.resolve)
	return d.v
}

// Resolved reports whether the producer has already run.
func (d *Value[T]) Resolved() bool {
	return d.resolved.Load()
}

func (d *Value[T]) resolve() {
	fn := d.fn
	d.fn = nil
	defer d.resolved.Store(true)
	if fn != nil {
		d.v = fn()
	}
}

// Install places a deferred producer into slot.
//
// Installing into a slot that already holds a Value is a no-op: the existing
// Value keeps its producer (or its resolved result) and fn is never called.
// This makes repeated installation idempotent and free of side effects.
//
// Returns the Value now held by slot.
func Install[T any](slot **Value[T], fn func() T) *Value[T] {
	if *slot == nil {
		*slot = New(fn)
	}
	return *slot
}
