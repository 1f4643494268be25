package lhctree

import (
	"sync"

	"github.com/google/uuid"
)

// Txn is a single-writer mutation batch against a Tree snapshot. It
// builds a new tree bottom-up by path-copying and interning every node
// it touches, and only becomes visible to readers when Commit swaps it
// in — nothing else in the tree observes a Txn's work in progress, the
// same transactional-write discipline spec §5 describes for the
// dedup/cell registries.
type Txn[V comparable] struct {
	tree *Tree[V]
	root NodeHandle[V]
	id   uuid.UUID
}

// Txn opens a new transaction rooted at the tree's current snapshot.
func (t *Tree[V]) Txn() *Txn[V] {
	return &Txn[V]{tree: t, root: t.gen.Load().root, id: uuid.New()}
}

// ID identifies this transaction for the commit log (see RecentCommits).
func (tx *Txn[V]) ID() uuid.UUID { return tx.id }

// Get reads against the transaction's in-progress root.
func (tx *Txn[V]) Get(key []byte) (V, bool) {
	return getNode(tx.root, key)
}

// Insert associates key with value, returning the value it replaced, if
// any.
func (tx *Txn[V]) Insert(key []byte, value V) (old V, existed bool) {
	old, existed = getNode(tx.root, key)
	tx.root = insertNode(tx.root, key, value)
	return old, existed
}

// Delete removes key, returning the value it held, if any.
func (tx *Txn[V]) Delete(key []byte) (old V, existed bool) {
	newRoot, existed, old := deleteNode(tx.root, key)
	if existed {
		if newRoot.IsZero() {
			newRoot = internNode[V](Node[V]{})
		}
		tx.root = newRoot
	}
	return old, existed
}

// Commit publishes the transaction's root as the tree's new snapshot and
// records it in the tree's bounded commit log.
func (tx *Txn[V]) Commit() *Tree[V] {
	tx.tree.gen.Store(&generation[V]{root: tx.root})
	recordCommit(tx.tree, tx.id)
	return tx.tree
}

func insertNode[V comparable](h NodeHandle[V], key []byte, value V) NodeHandle[V] {
	var n Node[V]
	if !h.IsZero() {
		n = *h.Get()
	}
	if len(key) == 0 {
		n.hasValue = true
		n.value = value
		return internNode(n)
	}
	label, rest := key[0], key[1:]
	var child NodeHandle[V]
	if idx, found := findEdge(n.edges, label); found {
		child = n.edges[idx].child
	}
	newChild := insertNode(child, rest, value)
	n.edges = insertEdge(n.edges, label, newChild)
	return internNode(n)
}

func deleteNode[V comparable](h NodeHandle[V], key []byte) (newHandle NodeHandle[V], existed bool, old V) {
	if h.IsZero() {
		var zero V
		return h, false, zero
	}
	n := *h.Get()
	if len(key) == 0 {
		if !n.hasValue {
			var zero V
			return h, false, zero
		}
		old = n.value
		n.hasValue = false
		var zero V
		n.value = zero
		if len(n.edges) == 0 {
			return NodeHandle[V]{}, true, old
		}
		return internNode(n), true, old
	}
	label, rest := key[0], key[1:]
	idx, found := findEdge(n.edges, label)
	if !found {
		var zero V
		return h, false, zero
	}
	childNew, childExisted, oldVal := deleteNode(n.edges[idx].child, rest)
	if !childExisted {
		var zero V
		return h, false, zero
	}
	edges := n.edges
	if childNew.IsZero() {
		edges = removeEdge(edges, idx)
	} else {
		edges = insertEdge(edges, label, childNew)
	}
	n.edges = edges
	if !n.hasValue && len(edges) == 0 {
		return NodeHandle[V]{}, true, oldVal
	}
	return internNode(n), true, oldVal
}

// commitLog is the bounded ring buffer of recent transaction ids kept
// per tree for diagnostics — this module's use of google/uuid, standing
// in for the audit trail spec.md's Open Questions section leaves
// unspecified for lhc_tree integration.
const commitLogSize = 64

type commitLog struct {
	mu      sync.Mutex
	entries [commitLogSize]uuid.UUID
	next    int
	count   int
}

func recordCommit[V comparable](t *Tree[V], id uuid.UUID) {
	l := &t.log
	l.mu.Lock()
	l.entries[l.next] = id
	l.next = (l.next + 1) % commitLogSize
	if l.count < commitLogSize {
		l.count++
	}
	l.mu.Unlock()
}

// RecentCommits returns up to the last commitLogSize transaction ids
// committed against t, oldest first.
func RecentCommits[V comparable](t *Tree[V]) []uuid.UUID {
	l := &t.log
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]uuid.UUID, 0, l.count)
	start := l.next - l.count
	if start < 0 {
		start += commitLogSize
	}
	for i := 0; i < l.count; i++ {
		out = append(out, l.entries[(start+i)%commitLogSize])
	}
	return out
}
