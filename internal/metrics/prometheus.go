// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// prometheus.go - MetricsRecorder backed by Prometheus collectors: call and
// error counters, lookup hit/miss counters, and a latency histogram, all
// labelled by operation identity.

package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus records metrics into Prometheus collectors.
type Prometheus struct {
	calls   *prometheus.CounterVec
	errors  *prometheus.CounterVec
	lookups *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewPrometheus creates the collectors under namespace and registers them
// with reg. Registration failures (e.g. duplicate registration) are returned.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	p := &Prometheus{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_total",
			Help:      "Total number of instrumented operation invocations.",
		}, []string{"operation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of failures, by operation and stage.",
		}, []string{"operation", "stage"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Key lookups, by operation and result (hit|miss).",
		}, []string{"operation", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "call_duration_seconds",
			Help:      "Latency of instrumented operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	for _, c := range []prometheus.Collector{p.calls, p.errors, p.lookups, p.latency} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}
	return p, nil
}

func (p *Prometheus) RecordCall(op string) {
	p.calls.WithLabelValues(op).Inc()
}

func (p *Prometheus) RecordError(op, stage string) {
	p.errors.WithLabelValues(op, stage).Inc()
}

func (p *Prometheus) RecordLatency(op string, d time.Duration) {
	p.latency.WithLabelValues(op).Observe(d.Seconds())
}

func (p *Prometheus) RecordHit(op string) {
	p.lookups.WithLabelValues(op, "hit").Inc()
}

func (p *Prometheus) RecordMiss(op string) {
	p.lookups.WithLabelValues(op, "miss").Inc()
}
