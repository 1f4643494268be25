// Package handle implements the owning handle variants of spec §4.B–C:
// Shared (clone-by-refcount), Unique (single-owner, no atomics), and
// Borrow (a non-owning, lifetime-scoped view).
//
// None of these types has an implicit destructor — Go does not have one.
// Every Shared and Unique handle obtained from this package must be
// released with an explicit Drop call exactly once; failing to call Drop
// simply leaks the cell (as leaking an Arc does in Rust), and calling it
// twice double-decrements the refcount, which is the Go-idiomatic
// trade-off for not having RAII. This is the one place in the package
// where that contract is spelled out at length; everywhere else in this
// module, comments stay terse.
package handle

import (
	"unsafe"

	"github.com/jixio/lhc/cell"
	"github.com/jixio/lhc/variant"
)

// Shared is the owning, clone-able handle of spec §4.B: "Clone = fetch-
// add(1, Relaxed) with overflow check. Drop = fetch-sub(1, Release); if
// result was 1, acquire-fence... drop-in-place and deallocate."
type Shared[T any] struct {
	c *cell.Cell[T]
}

// NewShared allocates a cell with refcount 1 and wraps it.
func NewShared[T any](value T) Shared[T] {
	return Shared[T]{c: cell.Alloc(value)}
}

// Get returns a pointer to the payload. Valid for as long as this handle
// (or any clone of it) has not been dropped.
func (s Shared[T]) Get() *T {
	return s.c.Value()
}

// Clone increments the refcount and returns a new owning handle.
func (s Shared[T]) Clone() Shared[T] {
	s.c.IncCount()
	return Shared[T]{c: s.c}
}

// Drop releases this handle's unit of ownership, reclaiming the cell if
// this was the last one.
func (s Shared[T]) Drop() {
	if s.c.DecCount() == 0 {
		s.c.Reclaim()
	}
}

// PtrEq reports whether two handles refer to the same cell.
func (s Shared[T]) PtrEq(other Shared[T]) bool {
	return cell.AddrEq(s.c, other.c)
}

// TryIntoUnique attempts to promote this handle to a Unique one. It
// succeeds iff the refcount is exactly 1, in which case ownership of the
// sole remaining reference transfers to the returned Unique handle and s
// must not be used again. On failure s is returned unchanged (spec §7:
// "not an error... returns the shared handle back to the caller").
func (s Shared[T]) TryIntoUnique() (Unique[T], Shared[T], bool) {
	if !s.c.TryAcquireUnique() {
		return Unique[T]{}, s, false
	}
	s.c.AcquireFence()
	return Unique[T]{c: s.c}, Shared[T]{}, true
}

// RawCell exposes the underlying cell pointer, the inverse of FromRaw.
// Not for general use.
func (s Shared[T]) RawCell() *cell.Cell[T] {
	return s.c
}

// Raw implements variant.Variant.
func (s Shared[T]) Raw() unsafe.Pointer {
	return unsafe.Pointer(s.c)
}

// AddrEq implements variant.Variant.
func (s Shared[T]) AddrEq(other variant.Variant[T]) bool {
	return s.Raw() == other.Raw()
}

// FromRaw reconstructs a Shared from a cell pointer obtained via RawCell,
// without touching the refcount. Callers must already own a unit of the
// refcount for c.
func FromRaw[T any](c *cell.Cell[T]) Shared[T] {
	return Shared[T]{c: c}
}

// IsZero reports whether s is the zero value (no cell).
func (s Shared[T]) IsZero() bool {
	return s.c == nil
}
