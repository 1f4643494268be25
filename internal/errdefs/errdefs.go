// Package errdefs classifies the substrate's unrecoverable failures the
// way moby-moby/errdefs classifies API errors: a narrow marker interface
// per class, a constructor, and an Is* predicate that walks Unwrap/Join
// chains rather than a plain type assertion, so a caller who wraps one of
// these with fmt.Errorf("%w", ...) on its way up still classifies
// correctly. Spec §7 defines exactly one class here — invariant
// violation — since every unrecoverable outcome this module detects
// (refcount overflow, a dedup entry missing on forget, a once.Slot
// handle that is not one pointer wide) funnels through the same "this
// must never happen" path.
package errdefs

import "errors"

type invariant interface {
	LHCInvariantViolation() bool
}

type invariantError struct {
	error
}

func (invariantError) LHCInvariantViolation() bool { return true }

// Invariant wraps msg as an invariant-violation error: the class spec §7
// describes as "Invariant violation (e.g., forget cannot find its own
// entry) → abort".
func Invariant(msg string) error {
	return invariantError{errors.New(msg)}
}

// IsInvariant reports whether err, or anything in its Unwrap/Join chain,
// is an invariant-violation error. Mirrors the walk
// moby-moby/errdefs.IsNotFound performs: direct marker interface, then
// errors.As-style unwrapping, including multi-error Join trees.
func IsInvariant(err error) bool {
	return matches(err, func(e error) bool {
		v, ok := e.(invariant)
		return ok && v.LHCInvariantViolation()
	})
}

func matches(err error, pred func(error) bool) bool {
	if err == nil {
		return false
	}
	if pred(err) {
		return true
	}
	switch x := err.(type) {
	case interface{ Unwrap() error }:
		return matches(x.Unwrap(), pred)
	case interface{ Unwrap() []error }:
		for _, e := range x.Unwrap() {
			if matches(e, pred) {
				return true
			}
		}
	case interface{ Cause() error }:
		return matches(x.Cause(), pred)
	}
	return false
}
