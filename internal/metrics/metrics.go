// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from remapping runs.
//
// The package is intentionally minimal and opinionated:
//
//   - It exposes a narrow interface (Backend) focused on counters and
//     duration observations.
//   - It provides a global, pluggable backend that defaults to a no-op
//     implementation, so metrics are always safe to call even when no real
//     backend is configured.
//   - Concrete metric systems live in subpackages (e.g. prompush), keeping
//     the rest of the codebase decoupled from any one of them.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Metric names recorded by the pipeline.
const (
	// RowsTotal counts processed input rows, labeled by kind
	// (processed, error_rows).
	RowsTotal = "remap_rows_total"
	// WarningsTotal counts warnings, labeled by category
	// (cell_error, format, validation, unmapped).
	WarningsTotal = "remap_warnings_total"
	// RunDuration observes whole-run wall time in seconds, labeled by status.
	RunDuration = "remap_run_duration_seconds"
)

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a duration-style value in seconds.
	ObserveDuration(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveDuration(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                              { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// IncCounter delegates to the current backend.
func IncCounter(name string, delta float64, labels Labels) {
	backend.IncCounter(name, delta, labels)
}

// ObserveDuration delegates to the current backend.
func ObserveDuration(name string, value float64, labels Labels) {
	backend.ObserveDuration(name, value, labels)
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordRun is a convenience for the common pattern: count rows and warnings
// and observe the run duration in one call.
func RecordRun(rows, errorRows, warnings int, elapsed time.Duration, status string) {
	IncCounter(RowsTotal, float64(rows), Labels{"kind": "processed"})
	IncCounter(RowsTotal, float64(errorRows), Labels{"kind": "error_rows"})
	IncCounter(WarningsTotal, float64(warnings), nil)
	ObserveDuration(RunDuration, elapsed.Seconds(), Labels{"status": status})
}
