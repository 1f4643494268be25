package dedup

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/jixio/lhc/handle"
)

// TestDedupIdentity is spec.md S3: two DedupHandles built from an equal
// value must be pointer-equal and deref to the same value. Reclaim on the
// last drop is checked by TestDedupReclaimOnLastDrop.
func TestDedupIdentity(t *testing.T) {
	a := New[int, ComparablePolicy[int]](42)
	b := New[int, ComparablePolicy[int]](42)

	assert.Assert(t, a.Equal(b))
	assert.Equal(t, *a.Get(), 42)
	assert.Equal(t, *b.Get(), 42)

	a.Drop()
	b.Drop()
}

func TestDedupDistinctValuesGetDistinctCells(t *testing.T) {
	a := New[int, ComparablePolicy[int]](1)
	b := New[int, ComparablePolicy[int]](2)

	assert.Assert(t, !a.Equal(b))

	a.Drop()
	b.Drop()
}

// loggingValue dedups on tag alone; id is along for the ride purely so
// OnCellDrop's log line can tell which of two equal-by-tag *cells* was
// reclaimed, since New's redundant-unique handling (see dedup.New)
// reclaims a second, distinct cell immediately at construction time
// whenever it finds an existing match.
type loggingValue struct {
	log *[]string
	tag string
	id  string
}

func (l loggingValue) Equal(other loggingValue) bool { return l.tag == other.tag }

type loggingPolicy struct{}

func (loggingPolicy) Hash(v loggingValue) uint64   { return StringPolicy{}.Hash(v.tag) }
func (loggingPolicy) Equal(a, b loggingValue) bool { return a.tag == b.tag }

func (l *loggingValue) OnCellDrop() {
	*l.log = append(*l.log, "dropped:"+l.tag+":"+l.id)
}

// TestDedupReclaimOnLastDrop is spec.md S4 (DedupHandle half of
// property 4): the interned cell's destructor runs iff no other handle
// for an equivalent value remains alive.
func TestDedupReclaimOnLastDrop(t *testing.T) {
	var log []string

	a := New[loggingValue, loggingPolicy](loggingValue{log: &log, tag: "x", id: "a"})

	// b's own value is equal-by-tag to a's, so FindOrRemember (inside New)
	// finds a's already-interned cell, wraps a Handle around it, and hands
	// New back the throwaway Unique wrapping b's never-interned cell. New
	// drops that throwaway immediately — reclaiming it right here, before
	// any of a/b/c's own explicit Drop calls below.
	b := New[loggingValue, loggingPolicy](loggingValue{log: &log, tag: "x", id: "b"})
	assert.DeepEqual(t, log, []string{"dropped:x:b"})

	c := b.Clone()

	assert.Assert(t, a.Equal(b))
	assert.Assert(t, b.Equal(c))

	a.Drop()
	assert.DeepEqual(t, log, []string{"dropped:x:b"})
	b.Drop()
	assert.DeepEqual(t, log, []string{"dropped:x:b"})
	c.Drop()
	assert.DeepEqual(t, log, []string{"dropped:x:b", "dropped:x:a"})
}

func TestFindOrRememberHandsBackRedundantUnique(t *testing.T) {
	first := New[int, ComparablePolicy[int]](9)

	u := handle.NewUnique(9)
	h, unused, hadExisting := FindOrRemember[int, ComparablePolicy[int]](u)

	assert.Assert(t, hadExisting)
	assert.Assert(t, h.Equal(first))

	unused.Drop()
	first.Drop()
	h.Drop()
}
