package refcellx

import (
	"fmt"
	"sync"
)

// WeakCell is a mutable slot holding at most one weak handle. It offers
// the same locked slot exchange as SharedCell but never keeps the
// referent alive.
//
// A WeakCell is typically embedded in the very struct its handle points
// back to: the cell starts empty, and once the owner is wrapped in its
// own strong handle, Store closes the self-reference.
//
// The zero value is an empty cell ready for use. A WeakCell must not be
// copied after first use.
type WeakCell[T any] struct {
	mu sync.Mutex
	w  *WeakRef[T]
}

// NewWeakCell returns a cell holding initial, which may be nil for a cell
// populated after construction.
func NewWeakCell[T any](initial *WeakRef[T]) *WeakCell[T] {
	return &WeakCell[T]{w: initial}
}

// Get returns a clone of the current weak handle, or nil if the cell is
// empty. Same snapshot guarantee as SharedCell.Get.
func (c *WeakCell[T]) Get() *WeakRef[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.Clone()
}

// Set swaps w into the cell and returns the displaced weak handle, nil if
// the cell was empty. Weak handles own nothing, so the displaced handle
// may simply be dropped.
func (c *WeakCell[T]) Set(w *WeakRef[T]) *WeakRef[T] {
	c.mu.Lock()
	old := c.w
	c.w = w
	c.mu.Unlock()
	return old
}

// Store derives a weak handle from target and installs it, discarding any
// previous handle. target keeps its strong count; the cell never owns the
// referent.
func (c *WeakCell[T]) Store(target *Ref[T]) {
	c.Set(target.Weak())
}

// Upgrade attempts to produce a strong handle to the referent. It returns
// nil both when the cell is empty and when the referent has already been
// released; callers must treat that as a recoverable condition (the
// referent may be mid-teardown), not an error.
//
// The slot read is atomic; whether the upgrade then succeeds depends on
// the referent's own lifetime, not on this cell's lock.
func (c *WeakCell[T]) Upgrade() *Ref[T] {
	return c.Get().Upgrade()
}

// String implements fmt.Stringer without retaining the handle.
func (c *WeakCell[T]) String() string {
	v := c.Upgrade()
	if v == nil {
		return "WeakCell(<dead>)"
	}
	defer v.Release()
	return fmt.Sprintf("WeakCell(%v)", v.Value())
}
