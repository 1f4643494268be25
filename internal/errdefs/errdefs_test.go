package errdefs

import (
	"errors"
	"fmt"
	"testing"

	"gotest.tools/v3/assert"
)

func TestIsInvariant(t *testing.T) {
	invariant := Invariant("forget could not find its own entry")
	other := errors.New("other")

	tests := map[string]struct {
		err      error
		expected bool
	}{
		"nil":              {err: nil},
		"direct":           {err: invariant, expected: true},
		"direct-other":     {err: other},
		"wrapped":          {err: fmt.Errorf("wrap: %w", invariant), expected: true},
		"multi-wrapped":    {err: fmt.Errorf("wrap: %w", fmt.Errorf("wrap: %w", invariant)), expected: true},
		"joined":           {err: errors.Join(other, invariant), expected: true},
		"joined-no-match":  {err: errors.Join(other, other)},
		"wrapped-no-match": {err: fmt.Errorf("wrap: %w", other)},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, IsInvariant(tc.err), tc.expected)
		})
	}
}
