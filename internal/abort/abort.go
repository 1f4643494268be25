// Package abort centralizes the "this must never happen" failure path used
// throughout lhc: refcount overflow, dedup invariant violations, and the
// once-slot layout check are all unrecoverable by design (see spec §7) and funnel
// through here so the whole substrate can be redirected in tests.
package abort

import (
	"sync/atomic"

	"github.com/jixio/lhc/internal/errdefs"
	"github.com/jixio/lhc/internal/lhclog"
)

// Hook is called in place of a hard process abort. The default panics,
// which is the Go-appropriate analogue of Rust's process::abort() for a
// library (os.Exit would be hostile to a caller's own cleanup paths; see
// DESIGN.md for why this is a deliberate deviation from "process abort").
var hook atomic.Pointer[func(string)]

func init() {
	f := func(msg string) { panic(msg) }
	hook.Store(&f)
}

// Now invokes the current abort hook with msg and never returns under the
// default hook. Tests may install a hook that captures msg and returns,
// which is why callers must still treat Now as diverging control flow.
// Every call is logged once, at error level, right before the hook runs
// — the one place in this module logging happens unconditionally, since
// by definition it's on the way out.
func Now(msg string) {
	err := errdefs.Invariant(msg)
	lhclog.Get().WithField("component", "abort").Error(err)
	(*hook.Load())(msg)
}

// SetHook overrides the abort behavior, returning the previous hook so
// callers (tests, mainly) can restore it.
func SetHook(f func(msg string)) (previous func(msg string)) {
	prev := hook.Swap(&f)
	return *prev
}
