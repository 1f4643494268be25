package handle

import "github.com/jixio/lhc/cell"

// Unique is the single-owner handle of spec §4.B: its refcount is
// necessarily 1 by construction, so Drop never touches the atomic
// counter at all — it goes straight to reclaim.
type Unique[T any] struct {
	c *cell.Cell[T]
}

// NewUnique allocates a fresh cell owned solely by the returned handle.
func NewUnique[T any](value T) Unique[T] {
	return Unique[T]{c: cell.Alloc(value)}
}

// Get returns a pointer to the payload.
func (u Unique[T]) Get() *T {
	return u.c.Value()
}

// Drop reclaims the cell unconditionally; there can be no other owner.
func (u Unique[T]) Drop() {
	u.c.Reclaim()
}

// IntoShared converts a Unique handle into a Shared one. The refcount is
// already 1, so this is a pointer copy with no atomic operation — spec
// §4.B: "From<Unique> for Shared is a cheap pointer copy".
func (u Unique[T]) IntoShared() Shared[T] {
	return Shared[T]{c: u.c}
}

// RawCell exposes the underlying cell pointer, for handle variants built
// on top of Unique (dedup's FindOrRemember takes ownership this way).
func (u Unique[T]) RawCell() *cell.Cell[T] {
	return u.c
}

// UniqueFromRaw reconstructs a Unique handle from a cell pointer obtained
// via RawCell. Callers must guarantee the cell's refcount is exactly 1 and
// that no other handle exists.
func UniqueFromRaw[T any](c *cell.Cell[T]) Unique[T] {
	return Unique[T]{c: c}
}

// IsZero reports whether u is the zero value (no cell).
func (u Unique[T]) IsZero() bool {
	return u.c == nil
}
