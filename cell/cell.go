// Package cell implements the reference-counted heap cell that every
// owning handle in lhc is built on (spec §4.A). In the original design the
// refcount is a header placed immediately before the payload in a single
// allocation; Go gives us no portable way to control an allocation's
// layout that way, so Cell is a plain generic struct with the counter as
// its first field. The contract is unchanged: the count starts at one,
// increments are lock-free, and the payload is only ever touched while
// the count is provably positive.
package cell

import (
	"math"
	"sync/atomic"

	"github.com/jixio/lhc/internal/abort"
)

// Dropper is implemented by payload types that need to run code exactly
// once, at the moment the last owning handle releases the cell. Go has no
// implicit destructor, so this is the explicit stand-in for Rust's Drop
// impl referenced throughout spec §3–§4.
type Dropper interface {
	OnCellDrop()
}

// Cell is the header-plus-payload allocation of spec §3. The zero value
// is not usable; construct one with Alloc.
type Cell[T any] struct {
	refcount atomic.Int64
	value    T
}

// Alloc allocates a cell with refcount 1, as spec §3 requires ("Count = 1
// at allocation").
func Alloc[T any](value T) *Cell[T] {
	c := &Cell[T]{value: value}
	c.refcount.Store(1)
	return c
}

// Value returns a pointer to the payload. Callers must hold a live handle
// (refcount > 0) for the duration of any use of the returned pointer.
func (c *Cell[T]) Value() *T {
	return &c.value
}

// IncCount implements spec §4.A's Inc: fetch-add(1, Relaxed) with an abort
// on overflow. Go's atomic.Int64.Add is a full read-modify-write; we
// accept the stronger-than-required ordering since sync/atomic does not
// expose a weaker one (see SPEC_FULL.md §5).
func (c *Cell[T]) IncCount() {
	if n := c.refcount.Add(1); n >= math.MaxInt64 {
		abort.Now("lhc/cell: refcount overflow")
	}
}

// DecCount implements spec §4.A's Dec: fetch-sub(1, Release), returning
// the count after the decrement. A return of 0 means the caller is
// responsible for the acquire-fence + reclaim sequence (see Reclaim).
func (c *Cell[T]) DecCount() (after int64) {
	return c.refcount.Add(-1)
}

// LoadCount is the Relaxed load used by TryAcquireUnique and by tests;
// it does not by itself synchronize with other threads' drops.
func (c *Cell[T]) LoadCount() int64 {
	return c.refcount.Load()
}

// AcquireFence issues the Acquire-equivalent load spec §4.A requires
// before any unique/reclaiming access: "before any unique-mutable access,
// it must issue an Acquire load to synchronize". Go's atomic loads are
// already sequentially consistent, so this call exists to document the
// synchronization point rather than to add ordering Go doesn't already
// give us.
func (c *Cell[T]) AcquireFence() {
	_ = c.refcount.Load()
}

// TryAcquireUnique reports whether the count is currently 1. A true
// result lets the caller promote a Shared handle to Unique; per spec
// §4.B the caller must still issue the acquire fence before mutating.
func (c *Cell[T]) TryAcquireUnique() bool {
	return c.refcount.Load() == 1
}

// Reclaim runs the acquire fence followed by the payload's destructor (if
// it implements Dropper). It must only be called exactly once per cell:
// by the handle whose DecCount observed a transition to zero, or by a
// Unique handle's Drop, which never touches the count.
func (c *Cell[T]) Reclaim() {
	c.AcquireFence()
	if d, ok := any(&c.value).(Dropper); ok {
		d.OnCellDrop()
	}
}

// AddrEq compares cell identity by pointer, the pointer-identity
// guarantee that every handle variant built on Cell exposes (spec §4.C,
// §4.F, §4.H).
func AddrEq[T any](a, b *Cell[T]) bool {
	return a == b
}
