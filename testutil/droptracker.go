// Package testutil provides shared helpers for the refcellx test suites.
package testutil

import "sync/atomic"

// DropTracker counts release-hook invocations so tests can assert exactly
// when a referent died. Safe for concurrent use from release hooks on any
// goroutine.
type DropTracker struct {
	drops atomic.Int64
}

// Hook returns a release hook that records one drop on t, ignoring the
// released value.
func Hook[T any](t *DropTracker) func(T) {
	return func(T) {
		t.drops.Add(1)
	}
}

// Drops reports how many referents have died so far.
func (t *DropTracker) Drops() int {
	return int(t.drops.Load())
}

// Reset clears the counter between test phases.
func (t *DropTracker) Reset() {
	t.drops.Store(0)
}
