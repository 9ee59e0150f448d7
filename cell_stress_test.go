package refcellx_test

import (
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	. "github.com/comalice/refcellx"
	"github.com/comalice/refcellx/testutil"
)

// Every Get under write contention must observe a handle installed whole
// by some Set, never a torn or already-dead one.
func TestNoTearingUnderContention(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	const (
		writers  = 4
		readers  = 4
		duration = 500 * time.Millisecond
	)

	cell := NewSharedCell(NewRef(0, nil))
	deadline := time.Now().Add(duration)

	var g errgroup.Group
	for w := 0; w < writers; w++ {
		g.Go(func() error {
			for time.Now().Before(deadline) {
				cell.Set(NewRef(w+1, nil)).Release()
			}
			return nil
		})
	}
	for r := 0; r < readers; r++ {
		g.Go(func() error {
			for time.Now().Before(deadline) {
				h := cell.Get()
				if h == nil {
					t.Error("cell observed empty; no writer ever installs nil")
					return nil
				}
				v := h.Value() // would panic on a dead handle
				if v < 0 || v > writers {
					t.Errorf("torn value %d", v)
				}
				h.Release()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	cell.Take().Release()
}

// One writer installs strictly increasing values; every reader must see a
// non-decreasing sequence. Observing B then A would violate the single
// total order over the cell's operations.
func TestLinearizableObservation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	const (
		readers = 8
		writes  = 10_000
	)

	cell := NewSharedCell(NewRef(0, nil))
	stop := make(chan struct{})

	var g errgroup.Group
	for r := 0; r < readers; r++ {
		g.Go(func() error {
			last := -1
			for {
				select {
				case <-stop:
					return nil
				default:
				}
				h := cell.Get()
				v := h.Value()
				h.Release()
				if v < last {
					t.Errorf("went backwards: observed %d after %d", v, last)
					return nil
				}
				last = v
			}
		})
	}

	for i := 1; i <= writes; i++ {
		cell.Set(NewRef(i, nil)).Release()
	}
	close(stop)
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	cell.Take().Release()
}

// Handle accounting under churn: once every handle is released, exactly
// one drop per allocation must have happened, no more, no fewer.
func TestDropAccountingUnderChurn(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	const (
		writers          = 4
		writesPerWriter  = 5_000
		totalAllocations = writers*writesPerWriter + 1
	)

	var tracker testutil.DropTracker
	cell := NewSharedCell(NewRef(0, testutil.Hook[int](&tracker)))

	var g errgroup.Group
	for w := 0; w < writers; w++ {
		g.Go(func() error {
			for i := 0; i < writesPerWriter; i++ {
				cell.Set(NewRef(i, testutil.Hook[int](&tracker))).Release()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	cell.Take().Release()

	if got := tracker.Drops(); got != totalAllocations {
		t.Errorf("expected %d drops, got %d", totalAllocations, got)
	}
}

// Concurrent upgrades racing strong releases must never yield a dead
// handle and must never run a hook twice.
func TestUpgradeChurn(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	const rounds = 2_000

	for i := 0; i < rounds; i++ {
		var tracker testutil.DropTracker
		h := NewRef(i, testutil.Hook[int](&tracker))
		cell := NewWeakCell[int](nil)
		cell.Store(h)

		var g errgroup.Group
		for u := 0; u < 3; u++ {
			g.Go(func() error {
				if up := cell.Upgrade(); up != nil {
					if up.Value() != i {
						t.Errorf("round %d: upgraded dead or torn handle", i)
					}
					up.Release()
				}
				return nil
			})
		}
		g.Go(func() error {
			h.Release()
			return nil
		})
		if err := g.Wait(); err != nil {
			t.Fatal(err)
		}

		if got := tracker.Drops(); got != 1 {
			t.Fatalf("round %d: expected exactly 1 drop, got %d", i, got)
		}
		if cell.Upgrade() != nil {
			t.Fatalf("round %d: referent resurrected", i)
		}
	}
}
