// Package once implements the single-slot, lock-free publication cell of
// spec §4.G: at most one writer may publish a value, readers see either
// nothing or the published value, and a losing writer gets its value
// handed back.
//
// Spec §4.G describes two encodings driven by whether A::Target is sized
// (a "thin" pointer, one atomic word) or unsized — a trait object or
// slice, a "fat" two-word pointer whose second word is repurposed as a
// Publishing-state sentinel. Every variant.Transparent implementation in
// this module (handle.Shared, handle.Borrow, dedup.Handle) is, once
// boxed behind a *cell.Cell[T], a single Go pointer — Go has no
// user-constructible fat pointers the way Rust's trait objects and
// slices do. Slot therefore only needs spec's thin-case protocol: a
// single atomic.Pointer and one compare-and-swap to publish. See
// DESIGN.md for why the niche/Publishing-sentinel machinery has no
// analogue to build here.
package once

import (
	"sync/atomic"
	"unsafe"

	"github.com/jixio/lhc/internal/abort"
	"github.com/jixio/lhc/variant"
)

// Slot holds at most one A. The zero value is empty and ready to use. A
// must be exactly one pointer wide — variant.Transparent documents the
// requirement, and the size check in checkThin enforces it on every Set
// and on every Get or Take that returns a value, standing in for the
// layout assertions the
// spec asks a portable implementation to make explicit (§9).
type Slot[T any, A variant.Transparent[T]] struct {
	ptr atomic.Pointer[byte]
}

func checkThin[A any]() {
	var zero A
	if unsafe.Sizeof(zero) != unsafe.Sizeof(uintptr(0)) {
		abort.Now("lhc/once: A is not a single-pointer-wide transparent handle")
	}
}

func toPtr[T any, A variant.Transparent[T]](v A) *byte {
	checkThin[A]()
	return (*byte)(v.Raw())
}

func fromPtr[T any, A variant.Transparent[T]](p *byte) A {
	checkThin[A]()
	return *(*A)(unsafe.Pointer(&p))
}

// Get returns the published value, if any.
func (s *Slot[T, A]) Get() (A, bool) {
	p := s.ptr.Load()
	if p == nil {
		var zero A
		return zero, false
	}
	return fromPtr[T, A](p), true
}

// Set attempts to publish value. If another value has already been
// published, value is handed back unchanged and ok is false — spec §7:
// "OnceSlot double-publish returns the extra value back to the caller."
func (s *Slot[T, A]) Set(value A) (rejected A, ok bool) {
	p := toPtr[T, A](value)
	if s.ptr.CompareAndSwap(nil, p) {
		var zero A
		return zero, true
	}
	return value, false
}

// Take removes and returns the published value, if any. Per spec §4.G,
// this requires the caller to already exclude concurrent access (it
// takes no lock and performs no CAS); it is for callers who have proven
// exclusive access by other means.
func (s *Slot[T, A]) Take() (A, bool) {
	p := s.ptr.Swap(nil)
	if p == nil {
		var zero A
		return zero, false
	}
	return fromPtr[T, A](p), true
}
