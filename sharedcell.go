package refcellx

import (
	"fmt"
	"sync"
)

// SharedCell is a mutable slot holding at most one strong handle.
// The slot is guarded by a private mutex, so concurrent Get and Set calls
// always observe a complete handle, never a mix of old and new state.
//
// The zero value is an empty cell ready for use. A SharedCell must not be
// copied after first use.
type SharedCell[T any] struct {
	mu sync.Mutex
	v  *Ref[T]
}

// NewSharedCell returns a cell holding initial, which may be nil for an
// empty cell. The cell takes over the caller's reference.
func NewSharedCell[T any](initial *Ref[T]) *SharedCell[T] {
	return &SharedCell[T]{v: initial}
}

// Get returns a clone of the current handle, or nil if the cell is empty.
// The clone is a snapshot of the slot at some instant during the call:
// later Sets do not affect it, and releasing it is the caller's job.
func (c *SharedCell[T]) Get() *Ref[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v.Clone()
}

// Set swaps v into the cell and returns the displaced handle, nil if the
// cell was empty. The cell takes over v; the caller takes over the return
// value and releases it once done.
//
// The displaced handle is handed back rather than released here: its
// release hook may acquire this or another cell's lock, so it must run
// strictly after the lock is dropped.
func (c *SharedCell[T]) Set(v *Ref[T]) *Ref[T] {
	c.mu.Lock()
	old := c.v
	c.v = v
	c.mu.Unlock()
	return old
}

// Swap is Set under its conventional name.
func (c *SharedCell[T]) Swap(v *Ref[T]) *Ref[T] {
	return c.Set(v)
}

// Take empties the cell and returns the handle it held, nil if it was
// already empty.
func (c *SharedCell[T]) Take() *Ref[T] {
	return c.Set(nil)
}

// CompareAndSwap installs v only if the cell currently holds a handle to
// the same allocation as old (clones of one handle match; distinct
// handles to equal values do not; nil matches the empty cell). On success
// the cell's displaced reference is released after the lock is dropped
// and true is returned. On failure v is not consumed and stays with the
// caller.
func (c *SharedCell[T]) CompareAndSwap(old, v *Ref[T]) bool {
	c.mu.Lock()
	if !c.v.Is(old) {
		c.mu.Unlock()
		return false
	}
	displaced := c.v
	c.v = v
	c.mu.Unlock()
	displaced.Release()
	return true
}

// Clone returns a new cell holding a fresh clone of the current handle.
// The two cells share the referent but replace independently afterwards.
func (c *SharedCell[T]) Clone() *SharedCell[T] {
	return NewSharedCell(c.Get())
}

// String implements fmt.Stringer without retaining the handle.
func (c *SharedCell[T]) String() string {
	v := c.Get()
	if v == nil {
		return "SharedCell(<empty>)"
	}
	defer v.Release()
	return fmt.Sprintf("SharedCell(%v)", v.Value())
}
