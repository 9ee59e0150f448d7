// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"github.com/comalice/refcellx"
)

// Payload is a representative multi-word referent; handle operations must
// cost the same no matter how large the value behind them is.
type Payload struct {
	ID     int
	Name   string
	Labels map[string]string
	Body   []byte
}

// NewPayloadRef allocates a Payload of roughly size bytes behind a handle.
func NewPayloadRef(id, size int) *refcellx.Ref[Payload] {
	return refcellx.NewRef(Payload{
		ID:     id,
		Name:   "payload",
		Labels: map[string]string{"tier": "bench"},
		Body:   make([]byte, size),
	}, nil)
}

// GenCells returns n cells all holding clones of one shared referent,
// for benchmarks that spread contention across independent locks.
func GenCells(n int) []*refcellx.SharedCell[Payload] {
	root := NewPayloadRef(0, 64)
	defer root.Release()

	cells := make([]*refcellx.SharedCell[Payload], n)
	for i := range cells {
		cells[i] = refcellx.NewSharedCell(root.Clone())
	}
	return cells
}

// DrainCells empties every cell, releasing the handles they hold.
func DrainCells(cells []*refcellx.SharedCell[Payload]) {
	for _, c := range cells {
		c.Take().Release()
	}
}
