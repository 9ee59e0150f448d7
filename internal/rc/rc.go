package rc

import "sync/atomic"

// A Ref is an owning, reference-counted handle to a value of type T.
// Clone increments a shared atomic count and Release decrements it; when
// the count reaches zero the release hook (if any) runs and the stored
// value is cleared. A nil *Ref behaves as "no handle": Clone returns nil
// and Release is a no-op, so slots can pass their contents through
// without branching.
type Ref[T any] struct {
	s *shared[T]
}

// shared is the heap block every handle to one value points at.
type shared[T any] struct {
	value   T
	strong  atomic.Int64
	release func(T)
}

// NewRef returns a handle owning value, with a strong count of one.
// release may be nil; otherwise it runs exactly once, on the goroutine
// that drops the last strong handle.
func NewRef[T any](value T, release func(T)) *Ref[T] {
	s := &shared[T]{value: value, release: release}
	s.strong.Store(1)
	return &Ref[T]{s: s}
}

// Clone returns a new handle to the same value, incrementing the strong
// count. Clone of nil is nil. Panics if this handle was already released.
func (r *Ref[T]) Clone() *Ref[T] {
	if r == nil {
		return nil
	}
	if r.s == nil {
		panic("rc: Clone of released Ref")
	}
	r.s.strong.Add(1)
	return &Ref[T]{s: r.s}
}

// Release drops this handle. It is idempotent and safe on a nil *Ref.
// Dropping the last strong handle runs the release hook and clears the
// stored value, so outstanding WeakRefs stop retaining the referent.
func (r *Ref[T]) Release() {
	if r == nil || r.s == nil {
		return
	}
	s := r.s
	r.s = nil
	if s.strong.Add(-1) == 0 {
		if s.release != nil {
			s.release(s.value)
		}
		// No live strong handle can read the value anymore and Upgrade
		// never moves the count off zero, so this write is unobservable
		// except by the garbage collector.
		var zero T
		s.value = zero
	}
}

// Value returns the held value. Panics if the handle was released.
func (r *Ref[T]) Value() T {
	if r == nil || r.s == nil {
		panic("rc: Value of released Ref")
	}
	return r.s.value
}

// RefCount reports the current strong count, 0 for nil or released
// handles. Diagnostic use only: the count may change concurrently.
func (r *Ref[T]) RefCount() int {
	if r == nil || r.s == nil {
		return 0
	}
	return int(r.s.strong.Load())
}

// Is reports whether both handles point at the same allocation. Clones of
// one handle match; distinct handles to equal values do not. A nil or
// released handle matches only nil and released handles.
func (r *Ref[T]) Is(other *Ref[T]) bool {
	var a, b *shared[T]
	if r != nil {
		a = r.s
	}
	if other != nil {
		b = other.s
	}
	return a == b
}

// Weak returns a non-owning handle to the same value. Panics if this
// handle was released.
func (r *Ref[T]) Weak() *WeakRef[T] {
	if r == nil || r.s == nil {
		panic("rc: Weak of released Ref")
	}
	return &WeakRef[T]{s: r.s}
}

// A WeakRef does not keep its referent alive: it can produce a strong
// handle only while at least one strong handle still exists. WeakRefs
// carry no count of their own and need no Release.
type WeakRef[T any] struct {
	s *shared[T]
}

// Clone returns a copy of the weak handle. Clone of nil is nil.
func (w *WeakRef[T]) Clone() *WeakRef[T] {
	if w == nil {
		return nil
	}
	return &WeakRef[T]{s: w.s}
}

// Upgrade returns a new strong handle to the referent, or nil if the
// referent has already been released. It is safe to call concurrently
// with the final Release: the count is raised with a compare-and-swap
// that refuses to move off zero, so a dead referent is never resurrected.
func (w *WeakRef[T]) Upgrade() *Ref[T] {
	if w == nil || w.s == nil {
		return nil
	}
	for {
		n := w.s.strong.Load()
		if n == 0 {
			return nil
		}
		if w.s.strong.CompareAndSwap(n, n+1) {
			return &Ref[T]{s: w.s}
		}
	}
}
