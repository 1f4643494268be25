package singleton

import (
	"sync/atomic"

	"github.com/jixio/lhc/typeslot"
)

// WithSite adds the call-site cache of spec §4.E steps 1/4 on top of For:
// each distinct Site marker type gets its own atomic pointer slot (via
// typeslot), so repeated calls from the same call site skip the registry
// lookup entirely after the first one. This is the direct Go translation
// of the original's inline_cache!(AtomicUsize, TagX) pattern from
// DESIGN NOTES §9 — Site plays the role the macro's generated marker type
// played in the source crate.
func WithSite[T any, Site any](ctor func() T) *T {
	slot := typeslot.For[atomic.Pointer[T], Site]()

	if p := slot.Load(); p != nil {
		return p
	}

	p := For(ctor)
	slot.Store(p)
	return p
}
