package handle

import (
	"unsafe"

	"github.com/jixio/lhc/cell"
	"github.com/jixio/lhc/variant"
)

// Borrow is the non-owning, scope-bounded view of spec §4.C: it carries
// no refcount unit of its own, so dropping one (letting it go out of
// scope) has no side effect. CloneOwned produces a fresh owning Shared
// handle.
//
// Go has no borrow checker, so the "lifetime-scoped" half of the
// contract is documentation rather than something the compiler enforces:
// a Borrow must not outlive the Shared handle it was taken from.
type Borrow[T any] struct {
	c *cell.Cell[T]
}

// BorrowFrom takes a non-owning view of an existing Shared handle.
func BorrowFrom[T any](s Shared[T]) Borrow[T] {
	return Borrow[T]{c: s.c}
}

// Get returns a pointer to the payload.
func (b Borrow[T]) Get() *T {
	return b.c.Value()
}

// CloneOwned increments the refcount and returns a new owning Shared
// handle, the Go analogue of spec's "clone_owned calls the shared clone
// to produce a fresh owning handle".
func (b Borrow[T]) CloneOwned() Shared[T] {
	b.c.IncCount()
	return Shared[T]{c: b.c}
}

// Raw implements variant.Variant.
func (b Borrow[T]) Raw() unsafe.Pointer {
	return unsafe.Pointer(b.c)
}

// AddrEq implements variant.Variant.
func (b Borrow[T]) AddrEq(other variant.Variant[T]) bool {
	return b.Raw() == other.Raw()
}
