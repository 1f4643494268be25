// Package lhctree is the persistent radix tree collaborator referenced
// throughout spec.md (the "included lhc_tree"): a byte-keyed, immutable,
// path-copying tree whose nodes are interned through dedup.Handle so that
// two transactions producing isomorphic subtrees share memory and
// (*NodeHandle).Equal is a pointer comparison — the scenario spec §2 and
// §9 call out by name ("the radix tree exploits this to make node
// equality O(1)").
//
// Per spec §1, the tree's own balancing/compaction algorithm is out of
// scope: this package is a minimal, correct collaborator whose only job
// is to drive cell, handle, and dedup through realistic concurrent
// use, not a production radix tree implementation.
package lhctree

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/jixio/lhc/dedup"
)

// Node is one level of the tree: an optional value and a sorted set of
// single-byte edges to child nodes. Unlike hashicorp/go-immutable-radix's
// node type (the structural model this package follows, see
// SPEC_FULL.md), Node does not compress chains of single-child edges
// into a shared byte-string prefix — see the TODO on edges below for
// exactly what that leaves undone.
type Node[V comparable] struct {
	hasValue bool
	value    V
	edges    []edge[V]
}

type edge[V comparable] struct {
	label byte
	child NodeHandle[V]
}

// TODO(lhctree): a chain of single-child, valueless nodes produced by a
// long Delete sequence is never collapsed back into a single edge (the
// "shrink_levels" pass in the original source, left TODO there too — see
// spec §9's Open Questions). It is safe, just not as compact as a
// balanced implementation would be.

// NodeHandle is the interned, reference-counted handle to a Node — the
// DedupHandle of spec §4.F specialized to this tree's node type.
type NodeHandle[V comparable] = dedup.Handle[Node[V], nodePolicy[V]]

func internNode[V comparable](n Node[V]) NodeHandle[V] {
	return dedup.New[Node[V], nodePolicy[V]](n)
}

func findEdge[V comparable](edges []edge[V], label byte) (int, bool) {
	lo, hi := 0, len(edges)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case edges[mid].label == label:
			return mid, true
		case edges[mid].label < label:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false
}

// insertEdge returns a copy of edges with label->child inserted or
// replaced, keeping the slice sorted by label.
func insertEdge[V comparable](edges []edge[V], label byte, child NodeHandle[V]) []edge[V] {
	idx, found := findEdge(edges, label)
	out := make([]edge[V], len(edges), len(edges)+1)
	copy(out, edges)
	if found {
		out[idx] = edge[V]{label: label, child: child}
		return out
	}
	out = append(out, edge[V]{})
	copy(out[idx+1:], out[idx:])
	out[idx] = edge[V]{label: label, child: child}
	return out
}

func removeEdge[V comparable](edges []edge[V], idx int) []edge[V] {
	out := make([]edge[V], 0, len(edges)-1)
	out = append(out, edges[:idx]...)
	out = append(out, edges[idx+1:]...)
	return out
}

// nodePolicy is the dedup.Policy used to intern Node values: two nodes
// hash-and-compare equal iff they have the same value slot and the same
// sorted edge labels pointing at pointer-equal children — recursing into
// a child's own contents is never necessary, because the child was
// already interned bottom-up (this is the O(1)-equality property spec §2
// is built around).
type nodePolicy[V comparable] struct{}

func (nodePolicy[V]) Hash(n Node[V]) uint64 {
	h := xxhash.Sum64String("lhctree.node")
	if n.hasValue {
		h = combine(h, xxhash.Sum64String(fmt.Sprintf("v:%v", n.value)))
	}
	for _, e := range n.edges {
		h = combine(h, uint64(e.label))
		h = combine(h, e.child.HashCode())
	}
	return h
}

func (nodePolicy[V]) Equal(a, b Node[V]) bool {
	if a.hasValue != b.hasValue {
		return false
	}
	if a.hasValue && a.value != b.value {
		return false
	}
	if len(a.edges) != len(b.edges) {
		return false
	}
	for i := range a.edges {
		if a.edges[i].label != b.edges[i].label {
			return false
		}
		if !a.edges[i].child.Equal(b.edges[i].child) {
			return false
		}
	}
	return true
}

func combine(h, x uint64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], h)
	binary.LittleEndian.PutUint64(buf[8:16], x)
	return xxhash.Sum64(buf[:])
}
