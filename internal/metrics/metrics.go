// Package metrics provides the MetricsRecorder interface, a noop
// implementation and a Prometheus-backed implementation.
package metrics

import "time"

// MetricsRecorder is the interface for recording instrumentation metrics.
// op is an operation identity such as "Cache.Store"; stage names the step
// that failed ("count", "record", "call", "get").
type MetricsRecorder interface {
	RecordCall(op string)
	RecordError(op, stage string)
	RecordLatency(op string, d time.Duration)
	RecordHit(op string)
	RecordMiss(op string)
}

// Noop is a MetricsRecorder that discards all data.
type Noop struct{}

func (Noop) RecordCall(op string)                     {}
func (Noop) RecordError(op, stage string)             {}
func (Noop) RecordLatency(op string, d time.Duration) {}
func (Noop) RecordHit(op string)                      {}
func (Noop) RecordMiss(op string)                     {}
