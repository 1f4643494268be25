package dedup

import (
	"unsafe"

	"github.com/jixio/lhc/cell"
	"github.com/jixio/lhc/handle"
	"github.com/jixio/lhc/variant"
)

// Handle is the DedupHandle of spec §4.F/§6: a Shared-like handle whose
// equality and hash reduce to pointer identity, because every live
// Handle for equal values shares the same cell.
type Handle[T any, D Policy[T]] struct {
	c *cell.Cell[T]
}

// New interns value, equivalent to
// FindOrRemember(handle.NewUnique(value)) discarding the leftover unique,
// per spec §6.
func New[T any, D Policy[T]](value T) Handle[T, D] {
	h, unused, hadExisting := FindOrRemember[T, D](handle.NewUnique(value))
	if hadExisting {
		unused.Drop()
	}
	return h
}

// FindOrRemember implements spec §4.F's public operation: it either
// returns the already-interned handle for an equal value (handing back
// the now-redundant unique handle for the caller to drop or reuse), or
// consumes u's cell directly into the table and returns a fresh Handle
// wrapping the very same cell — no extra allocation, no copy, which is
// what makes the dedup guarantee a pointer-identity guarantee.
func FindOrRemember[T any, D Policy[T]](u handle.Unique[T]) (h Handle[T, D], unused handle.Unique[T], hadExisting bool) {
	return findOrRemember[T, D](u)
}

// FromUnique is the Go spelling of spec §6's From<UniqueHandle>.
func FromUnique[T any, D Policy[T]](u handle.Unique[T]) Handle[T, D] {
	h, unused, hadExisting := FindOrRemember[T, D](u)
	if hadExisting {
		unused.Drop()
	}
	return h
}

// Get returns a pointer to the interned value.
func (h Handle[T, D]) Get() *T {
	return h.c.Value()
}

// Clone increments the refcount and returns a new owning handle to the
// same interned cell.
func (h Handle[T, D]) Clone() Handle[T, D] {
	h.c.IncCount()
	return Handle[T, D]{c: h.c}
}

// Drop releases this handle's unit of ownership. If it was the last one,
// the entry is removed from the table before the cell is reclaimed —
// spec §4.F: "Dropping the last DedupHandle drives the header's
// zero-count path, which calls back into (F) to remove the entry before
// deallocation."
func (h Handle[T, D]) Drop() {
	if h.c.DecCount() == 0 {
		forget[T, D](h.c)
		h.c.Reclaim()
	}
}

// Equal reports pointer identity — spec §4.F's invariant 3: "Any two
// shared handles obtained from the table for equal values are
// pointer-equal."
func (h Handle[T, D]) Equal(other Handle[T, D]) bool {
	return cell.AddrEq(h.c, other.c)
}

// HashCode hashes by cell address, per spec §4.F's open question
// resolution ("Hash for DedupHandle currently uses the payload
// address").
func (h Handle[T, D]) HashCode() uint64 {
	return uint64(uintptr(unsafe.Pointer(h.c)))
}

// IsZero reports whether h is the zero Handle (no cell at all), distinct
// from a live handle to an interned zero value.
func (h Handle[T, D]) IsZero() bool {
	return h.c == nil
}

// Raw implements variant.Variant.
func (h Handle[T, D]) Raw() unsafe.Pointer {
	return unsafe.Pointer(h.c)
}

// AddrEq implements variant.Variant.
func (h Handle[T, D]) AddrEq(other variant.Variant[T]) bool {
	return h.Raw() == other.Raw()
}
