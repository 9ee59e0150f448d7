// Package refcellx provides thread-safe cells over reference-counted
// handles to shared, immutable values.
//
// A SharedCell holds a replaceable owning handle: readers fetch a
// consistent snapshot at any time, writers swap in a new handle, and no
// reader ever observes a torn reference. A WeakCell holds the non-owning
// counterpart and is the building block for self-referential and cyclic
// structures that must not leak through ownership cycles.
//
// All operations on a single cell are linearizable. Each cell owns a
// private lock that is held only for the slot exchange, never across
// release hooks or any other user code. There is no ordering guarantee
// across distinct cells.
package refcellx

import "github.com/comalice/refcellx/internal/rc"

// Ref is an owning, reference-counted handle to a shared value.
// See internal/rc for the handle contract.
type Ref[T any] = rc.Ref[T]

// WeakRef is the non-owning counterpart to Ref. Upgrade yields a strong
// handle only while the referent is still alive.
type WeakRef[T any] = rc.WeakRef[T]

// NewRef returns a handle owning value, with a strong count of one.
// release may be nil; otherwise it runs exactly once when the last strong
// handle is dropped, and never while any cell lock is held.
func NewRef[T any](value T, release func(T)) *Ref[T] {
	return rc.NewRef(value, release)
}
