package once

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/jixio/lhc/handle"
)

// TestSlotThin is spec.md S4: empty slot returns None; the first Set
// publishes and returns None; Get then returns the published value; a
// second Set returns the caller's value unchanged.
func TestSlotThin(t *testing.T) {
	var slot Slot[int, handle.Shared[int]]

	_, ok := slot.Get()
	assert.Assert(t, !ok)

	seven := handle.NewShared(7)
	rejected, ok := slot.Set(seven)
	assert.Assert(t, ok)
	assert.Assert(t, rejected.IsZero())

	got, ok := slot.Get()
	assert.Assert(t, ok)
	assert.Equal(t, *got.Get(), 7)

	nine := handle.NewShared(9)
	rejected, ok = slot.Set(nine)
	assert.Assert(t, !ok)
	assert.Equal(t, *rejected.Get(), 9)

	nine.Drop()
	got2, _ := slot.Get()
	got2.Drop()
}

func TestSlotTake(t *testing.T) {
	var slot Slot[string, handle.Shared[string]]

	_, ok := slot.Take()
	assert.Assert(t, !ok)

	slot.Set(handle.NewShared("hi"))
	v, ok := slot.Take()
	assert.Assert(t, ok)
	assert.Equal(t, *v.Get(), "hi")
	v.Drop()

	_, ok = slot.Get()
	assert.Assert(t, !ok)
}

// TestSlotConcurrentSetOnlyOneWins exercises spec.md property 7: Set
// succeeds exactly once under concurrent writers.
func TestSlotConcurrentSetOnlyOneWins(t *testing.T) {
	var slot Slot[int, handle.Shared[int]]

	const n = 32
	wins := make(chan handle.Shared[int], n)
	done := make(chan struct{})
	for i := 0; i < n; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			h := handle.NewShared(i)
			if rejected, ok := slot.Set(h); ok {
				wins <- h
			} else {
				rejected.Drop()
			}
		}(i)
	}
	for i := 0; i < n; i++ {
		<-done
	}
	close(wins)

	count := 0
	var winner handle.Shared[int]
	for w := range wins {
		count++
		winner = w
	}
	assert.Equal(t, count, 1)

	got, ok := slot.Get()
	assert.Assert(t, ok)
	assert.Assert(t, got.PtrEq(winner))
	winner.Drop()
}
