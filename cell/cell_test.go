package cell

import (
	"testing"

	"gotest.tools/v3/assert"
)

type dropLogger struct {
	log *[]string
	id  string
}

func (d *dropLogger) OnCellDrop() {
	*d.log = append(*d.log, "drop:"+d.id)
}

func TestAllocStartsAtOne(t *testing.T) {
	c := Alloc(42)
	assert.Equal(t, c.LoadCount(), int64(1))
	assert.Equal(t, *c.Value(), 42)
}

func TestIncDecCount(t *testing.T) {
	c := Alloc("x")
	c.IncCount()
	assert.Equal(t, c.LoadCount(), int64(2))
	assert.Equal(t, c.DecCount(), int64(1))
	assert.Equal(t, c.DecCount(), int64(0))
}

func TestReclaimRunsDropperOnce(t *testing.T) {
	var log []string
	c := Alloc(dropLogger{log: &log, id: "a"})
	if c.DecCount() == 0 {
		c.Reclaim()
	}
	assert.DeepEqual(t, log, []string{"drop:a"})
}

func TestTryAcquireUnique(t *testing.T) {
	c := Alloc(1)
	assert.Assert(t, c.TryAcquireUnique())
	c.IncCount()
	assert.Assert(t, !c.TryAcquireUnique())
	c.DecCount()
	assert.Assert(t, c.TryAcquireUnique())
}

func TestAddrEq(t *testing.T) {
	a := Alloc(1)
	b := Alloc(1)
	assert.Assert(t, AddrEq(a, a))
	assert.Assert(t, !AddrEq(a, b))
}
