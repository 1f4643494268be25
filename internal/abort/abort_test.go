package abort

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/jixio/lhc/internal/errdefs"
)

func TestNowInvokesHookWithInvariantMessage(t *testing.T) {
	var got string
	prev := SetHook(func(msg string) { got = msg })
	defer SetHook(prev)

	Now("lhc/test: something that must never happen")
	assert.Equal(t, got, "lhc/test: something that must never happen")
}

func TestNowBuildsAnInvariantError(t *testing.T) {
	// abort.Now only hands the hook a string (spec §7's abort path has no
	// recoverable return value), but it must classify as an invariant
	// violation on its way to the logger — this pins that classification.
	err := errdefs.Invariant("lhc/test: invariant")
	assert.Assert(t, errdefs.IsInvariant(err))
}

func TestDefaultHookPanics(t *testing.T) {
	defer func() {
		r := recover()
		assert.Assert(t, r != nil)
	}()
	Now("lhc/test: default hook should panic")
}
