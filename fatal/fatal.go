// Package fatal centralizes the "this should never happen, stop the
// process" failure path used across tilesim, matching the teacher's own
// log.Fatal(err.Error()) / panic(errMsg) call sites
// (model8/runner/tile.go, runner/mesh.go) but logging through logrus so
// the diagnostic carries structured fields.
package fatal

import "github.com/sirupsen/logrus"

// Fail logs format/args at Fatal level and terminates the process. Per
// spec.md §7, every non-cooperative inconsistency in tilesim (unknown
// config value, queue overflow, mismatched dynamic-info variant, unknown
// message tag, transport failure in the control plane) goes through
// here: the simulator is a research instrument and silent desync
// invalidates results, so fail-fast beats partial continuation.
func Fail(format string, args ...interface{}) {
	logrus.Fatalf(format, args...)
}

// FailWithFields is Fail with structured context attached.
func FailWithFields(fields logrus.Fields, format string, args ...interface{}) {
	logrus.WithFields(fields).Fatalf(format, args...)
}
