// Package lhclog wires the substrate's sparse diagnostic logging to
// logrus the way moby-moby's daemon packages do: a package-level
// default that any caller can swap out, structured fields instead of
// formatted strings, and nothing at all on the hot atomic paths.
package lhclog

import "github.com/sirupsen/logrus"

var std logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the package-wide logger used by lhc's internal
// packages. Intended for embedding applications that want lhc's
// diagnostics folded into their own structured log stream.
func SetLogger(l logrus.FieldLogger) {
	std = l
}

// Get returns the current logger.
func Get() logrus.FieldLogger {
	return std
}
