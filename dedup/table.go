package dedup

import (
	"strconv"
	"sync"

	"github.com/moby/locker"

	"github.com/jixio/lhc/cell"
	"github.com/jixio/lhc/handle"
	"github.com/jixio/lhc/internal/abort"
	"github.com/jixio/lhc/internal/lhclog"
	"github.com/jixio/lhc/singleton"
)

// ShardCount is the number of independent buckets-plus-rwlock shards a
// freshly-created per-(T, D) table is split into, keyed by the low bits
// of the value's hash. Spec §4.F's Open Question ("whether the dedup
// table should use a concurrent hash table rather than a reader-writer
// lock") is resolved by keeping the rwlock (per the spec's own framing)
// but splitting it N ways, the same striping trick moby/locker already
// applies to the construction race below — two values with different
// hashes no longer contend on the same rwlock at all. Changing ShardCount
// only affects tables created after the change; it is read once per
// table at construction.
var ShardCount = 32

// table is the process-wide hash-consing table for one (T, D) pair,
// split into ShardCount independent shards. Each shard stores non-owning
// raw cell pointers only — inserting into the table never increments a
// refcount, and the table is never the reason a cell stays alive (spec
// §4.F invariant: "the table is not counted in that refcount").
type table[T any, D Policy[T]] struct {
	shards []shard[T]
	// stripe is a name lock keyed by the value's hash. findOrRemember
	// holds it from just after a shard's read-locked miss until it
	// returns, so callers whose values share a hash run that slow path
	// (write-locked re-probe and insert) one at a time. It is not a
	// correctness requirement: the write-locked re-probe below is still
	// what the correctness argument in spec §4.F rests on.
	stripe *locker.Locker
}

type shard[T any] struct {
	rw      sync.RWMutex
	buckets map[uint64][]*cell.Cell[T]
}

func getTable[T any, D Policy[T]]() *table[T, D] {
	return singleton.For(func() table[T, D] {
		n := ShardCount
		if n < 1 {
			n = 1
		}
		shards := make([]shard[T], n)
		for i := range shards {
			shards[i].buckets = make(map[uint64][]*cell.Cell[T])
		}
		return table[T, D]{shards: shards, stripe: locker.New()}
	})
}

func (t *table[T, D]) shardFor(hash uint64) *shard[T] {
	return &t.shards[hash%uint64(len(t.shards))]
}

func findLocked[T any, D Policy[T]](bucket []*cell.Cell[T], policy D, value T) (*cell.Cell[T], bool) {
	for _, c := range bucket {
		if policy.Equal(value, *c.Value()) {
			return c, true
		}
	}
	return nil, false
}

// findOrRemember implements spec §4.F's find_or_remember: probe the
// owning shard under a read lock, and only take that shard's write lock
// (with a mandatory re-probe) on a miss.
func findOrRemember[T any, D Policy[T]](u handle.Unique[T]) (h Handle[T, D], unused handle.Unique[T], hadExisting bool) {
	var policy D
	t := getTable[T, D]()
	value := *u.Get()
	hash := policy.Hash(value)
	s := t.shardFor(hash)

	s.rw.RLock()
	if c, ok := findLocked[T, D](s.buckets[hash], policy, value); ok {
		c.IncCount()
		s.rw.RUnlock()
		return Handle[T, D]{c: c}, u, true
	}
	s.rw.RUnlock()

	name := strconv.FormatUint(hash, 16)
	t.stripe.Lock(name)
	defer t.stripe.Unlock(name)

	s.rw.Lock()
	if c, ok := findLocked[T, D](s.buckets[hash], policy, value); ok {
		c.IncCount()
		s.rw.Unlock()
		return Handle[T, D]{c: c}, u, true
	}

	c := u.RawCell()
	s.buckets[hash] = append(s.buckets[hash], c)
	grown := len(s.buckets)%tableGrowthLogStride == 0
	size := len(s.buckets)
	s.rw.Unlock()
	if grown {
		lhclog.Get().WithField("component", "dedup").WithField("shard_buckets", size).Debug("table grows")
	}
	return Handle[T, D]{c: c}, handle.Unique[T]{}, false
}

// tableGrowthLogStride bounds how often a successful insert logs its
// shard's current bucket count — every insert would be too noisy for
// workloads that intern heavily, but periodic growth is useful signal
// for sizing ShardCount.
const tableGrowthLogStride = 64

// forget implements spec §4.F's forget, invoked from Handle.Drop's
// dec-to-zero path: find the entry in its shard by (hash, pointer
// identity) — not Equal, since the payload may be mid-destruction —
// remove it, and abort if it isn't there (an invariant violation per
// spec §4.F/§7). Hashing *c.Value() here is only safe because Drop calls
// forget strictly before Reclaim — the payload is still intact, merely
// unreachable from any other handle.
func forget[T any, D Policy[T]](c *cell.Cell[T]) {
	var policy D
	t := getTable[T, D]()
	hash := policy.Hash(*c.Value())
	s := t.shardFor(hash)

	s.rw.Lock()
	defer s.rw.Unlock()

	bucket := s.buckets[hash]
	for i, candidate := range bucket {
		if candidate == c {
			bucket[i] = bucket[len(bucket)-1]
			s.buckets[hash] = bucket[:len(bucket)-1]
			return
		}
	}
	abort.Now("lhc/dedup: forget could not find its own entry")
}
