// Package variant holds the glue abstraction of spec §4.H: a common
// interface over the owning handle variants (Shared, DedupHandle, ...)
// so that generic infrastructure like once.Slot can operate on any of
// them without knowing which one it got.
package variant

import "unsafe"

// Variant abstracts over a handle type that wraps exactly one cell
// pointer. T is the payload type the handle derefs to.
type Variant[T any] interface {
	// Raw returns the handle's underlying cell pointer, untyped. Two
	// handles with equal Raw results refer to the same cell.
	Raw() unsafe.Pointer
	// AddrEq reports whether this handle and other refer to the same
	// cell.
	AddrEq(other Variant[T]) bool
}

// Transparent marks a Variant implementation as representationally a
// single pointer with no extra fields — the property spec §4.G requires
// of anything held in a once.Slot. Go has no repr(transparent) attribute
// to enforce this at compile time, so Transparent is documentation: every
// implementation in this module (handle.Shared, handle.Borrow,
// dedup.Handle) is, in fact, a struct with one *cell.Cell[T] field and
// nothing else.
type Transparent[T any] interface {
	Variant[T]
}
