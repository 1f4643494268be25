package lhctree

import "sync/atomic"

// Tree is a handle to the current snapshot of a radix tree, plus a
// bounded commit log. Reads (Get, Root, Walk) load the current
// generation through an atomic pointer and never block. Like
// hashicorp/go-immutable-radix's Txn, Commit itself is not safe for
// concurrent callers against the same Tree — exactly one writer may be
// building a Txn against a given snapshot at a time; the caller
// serializes writers, the tree only guarantees torn-free reads.
//
// Note on node lifetime: Tree and Txn never call Drop on a NodeHandle —
// a superseded root (and the path-copied nodes above a changed leaf) are
// never released back to the dedup table, so this collaborator does not
// exercise dedup's forget/reclaim-on-last-drop path end to end. Doing so
// correctly would require every Node to cascade-drop its own edges on
// reclaim and every shared, untouched child to be Clone()'d wherever it
// is referenced by more than one interned Node, which this minimal
// collaborator does not implement. Property 4 (reclaim iff no other
// handle for an equivalent value remains alive) is instead proven out by
// dedup's own tests (dedup.TestDedupReclaimOnLastDrop and the S3/S4
// scenarios), not by lhctree.
type Tree[V comparable] struct {
	gen atomic.Pointer[generation[V]]
	log commitLog
}

type generation[V comparable] struct {
	root NodeHandle[V]
}

// New returns an empty tree.
func New[V comparable]() *Tree[V] {
	t := &Tree[V]{}
	t.gen.Store(&generation[V]{root: internNode[V](Node[V]{})})
	return t
}

// Root returns the tree's current root handle.
func (t *Tree[V]) Root() NodeHandle[V] {
	return t.gen.Load().root
}

// Get looks up key against the tree's current snapshot.
func (t *Tree[V]) Get(key []byte) (V, bool) {
	return getNode(t.gen.Load().root, key)
}

// Walk calls fn for every key/value pair in ascending byte order,
// stopping early if fn returns false.
func (t *Tree[V]) Walk(fn func(key []byte, value V) bool) {
	walkNode(t.gen.Load().root, nil, fn)
}

func getNode[V comparable](h NodeHandle[V], key []byte) (V, bool) {
	if h.IsZero() {
		var zero V
		return zero, false
	}
	n := h.Get()
	if len(key) == 0 {
		if n.hasValue {
			return n.value, true
		}
		var zero V
		return zero, false
	}
	idx, found := findEdge(n.edges, key[0])
	if !found {
		var zero V
		return zero, false
	}
	return getNode(n.edges[idx].child, key[1:])
}

func walkNode[V comparable](h NodeHandle[V], prefix []byte, fn func(key []byte, value V) bool) bool {
	if h.IsZero() {
		return true
	}
	n := h.Get()
	if n.hasValue {
		if !fn(append([]byte(nil), prefix...), n.value) {
			return false
		}
	}
	for _, e := range n.edges {
		if !walkNode(e.child, append(prefix, e.label), fn) {
			return false
		}
	}
	return true
}
