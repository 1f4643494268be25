// Package dedup implements the hash-consing table of spec §4.F: a
// process-wide, per-(T, D) table mapping structurally-equal values of T
// to a single live handle, so that equal values become pointer-equal.
package dedup

import (
	"bytes"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Policy supplies the hash and equality used to dedup T. It plays the
// role of the source crate's Dedup trait; D is instantiated as a
// zero-sized marker type (the methods below never touch D's own state),
// the same convention spec §4.F's "Hash function is pluggable via the D
// type parameter" describes.
type Policy[T any] interface {
	Hash(value T) uint64
	Equal(a, b T) bool
}

// StringPolicy dedups strings by value, hashed with xxhash — the
// idiomatic Go stand-in for spec §4.F's "default is a fast
// non-cryptographic 64-bit hasher" (the source crate defaults to
// zwohash; this module uses xxhash, reached transitively through
// moby-moby's containerd/prometheus dependency chain).
type StringPolicy struct{}

func (StringPolicy) Hash(v string) uint64   { return xxhash.Sum64String(v) }
func (StringPolicy) Equal(a, b string) bool { return a == b }

// BytesPolicy dedups byte slices by content, hashed with xxhash.
type BytesPolicy struct{}

func (BytesPolicy) Hash(v []byte) uint64   { return xxhash.Sum64(v) }
func (BytesPolicy) Equal(a, b []byte) bool { return bytes.Equal(a, b) }

// ComparablePolicy dedups any comparable T using xxhash over its %v
// representation for the hash and Go's built-in == for equality. It is
// the default policy used where the spec's examples dedup plain scalars
// (S3's DedupHandle::new(42)).
type ComparablePolicy[T comparable] struct{}

func (ComparablePolicy[T]) Hash(v T) uint64 {
	return xxhash.Sum64String(fmt.Sprintf("%v", v))
}

func (ComparablePolicy[T]) Equal(a, b T) bool { return a == b }
