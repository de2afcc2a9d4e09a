// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// instrument.go - call instrumentation. CountCalls and CallHistory wrap an
// operation and return a function of the same signature that counts its
// invocations, or appends its inputs and results to the operation's call
// logs, in the backend. Compose them with CallHistory outermost and
// CountCalls innermost.

package storage

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/temifoden/alx-backend-storage/internal/clock"
	"github.com/temifoden/alx-backend-storage/internal/metrics"
)

// Func is an operation that can be instrumented.
type Func[In, Out any] func(ctx context.Context, in In) (Out, error)

// Instrumenter holds the backend that counters and call logs are written
// to, and the ambient components the wrappers report through.
type Instrumenter struct {
	backend Backend
	metrics metrics.MetricsRecorder
	tracer  trace.Tracer
	logger  Logger
	clock   clock.Clock
}

// InstrumentOptions configures an Instrumenter. Zero fields take noop or
// real-time defaults.
type InstrumentOptions struct {
	Metrics metrics.MetricsRecorder
	Tracer  trace.Tracer
	Logger  Logger
	Clock   clock.Clock
}

// NewInstrumenter returns an Instrumenter writing to b.
func NewInstrumenter(b Backend, opts InstrumentOptions) *Instrumenter {
	if opts.Metrics == nil {
		opts.Metrics = metrics.Noop{}
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	return &Instrumenter{
		backend: b,
		metrics: opts.Metrics,
		tracer:  opts.Tracer,
		logger:  opts.Logger,
		clock:   opts.Clock,
	}
}

// Backend returns the backend the Instrumenter writes to.
func (ins *Instrumenter) Backend() Backend { return ins.backend }

// CountCalls returns fn wrapped so that every invocation first increments
// the counter of id. The counter measures attempts: it is incremented
// whether or not fn succeeds. If the increment itself fails, fn is not
// called and the backend error is returned.
func CountCalls[In, Out any](ins *Instrumenter, id Identity, fn Func[In, Out]) Func[In, Out] {
	return func(ctx context.Context, in In) (Out, error) {
		if _, err := ins.backend.Incr(ctx, id.CounterKey()); err != nil {
			var zero Out
			ins.metrics.RecordError(string(id), "count")
			return zero, fmt.Errorf("%w: count %s: %w", ErrBackendUnavailable, id, err)
		}
		ins.metrics.RecordCall(string(id))
		return fn(ctx, in)
	}
}

// CallHistory returns fn wrapped so that every invocation appends
// FormatArgs(in) to the inputs log of id before delegating, and
// FormatResult(out) to the outputs log after. The result is returned
// unchanged.
//
// If fn fails, the failure marker "<error: MESSAGE>" is appended to the
// outputs log instead of a result, keeping both logs the same length, and
// fn's error is returned as is. If the input append fails, fn is not called.
// If the output append fails after fn succeeded, the backend error is
// returned.
func CallHistory[In, Out any](ins *Instrumenter, id Identity, fn Func[In, Out]) Func[In, Out] {
	return func(ctx context.Context, in In) (Out, error) {
		var zero Out
		ctx, span := ins.tracer.Start(ctx, string(id),
			trace.WithAttributes(attribute.String("storage.operation", string(id))))
		defer span.End()

		input := FormatArgs(in)
		if err := ins.backend.RPush(ctx, id.InputsKey(), input); err != nil {
			ins.metrics.RecordError(string(id), "record")
			span.RecordError(err)
			span.SetStatus(codes.Error, "record input")
			return zero, fmt.Errorf("%w: record input %s: %w", ErrBackendUnavailable, id, err)
		}
		span.SetAttributes(attribute.String("storage.input", input))

		start := ins.clock.Now()
		out, err := fn(ctx, in)
		ins.metrics.RecordLatency(string(id), clock.Since(ins.clock, start))
		if err != nil {
			ins.metrics.RecordError(string(id), "call")
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if perr := ins.backend.RPush(ctx, id.OutputsKey(), errorMarker(err)); perr != nil {
				ins.metrics.RecordError(string(id), "record")
				ins.logger.Warn("storage: failed to record call failure",
					"operation", string(id), "err", perr)
			}
			return zero, err
		}

		output := FormatResult(out)
		if err := ins.backend.RPush(ctx, id.OutputsKey(), output); err != nil {
			ins.metrics.RecordError(string(id), "record")
			span.RecordError(err)
			span.SetStatus(codes.Error, "record output")
			return zero, fmt.Errorf("%w: record output %s: %w", ErrBackendUnavailable, id, err)
		}
		span.SetAttributes(attribute.String("storage.output", output))
		ins.logger.Debug("storage: call recorded",
			"operation", string(id), "input", input, "output", output)
		return out, nil
	}
}

// Calls returns the number of recorded invocations of id according to its
// counter; an operation that was never called has zero calls.
func (ins *Instrumenter) Calls(ctx context.Context, id Identity) (int64, error) {
	return readCounter(ctx, ins.backend, id)
}
