package storage_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	storage "github.com/temifoden/alx-backend-storage"
	"github.com/temifoden/alx-backend-storage/internal/clock"
	"github.com/temifoden/alx-backend-storage/internal/memstore"
	"github.com/temifoden/alx-backend-storage/internal/metrics"
)

const echoOp storage.Identity = "Test.Echo"

func newTestInstrumenter(t *testing.T, opts storage.InstrumentOptions) (*storage.Instrumenter, *memstore.Store) {
	t.Helper()
	b := memstore.New(memstore.Options{})
	t.Cleanup(func() { _ = b.Close() })
	return storage.NewInstrumenter(b, opts), b
}

func echo(_ context.Context, in string) (string, error) { return strings.ToUpper(in), nil }

// recordingMetrics captures what the wrappers report.
type recordingMetrics struct {
	mu        sync.Mutex
	calls     map[string]int
	errors    map[string]int
	latencies []time.Duration
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{calls: map[string]int{}, errors: map[string]int{}}
}

func (m *recordingMetrics) RecordCall(op string) {
	m.mu.Lock()
	m.calls[op]++
	m.mu.Unlock()
}

func (m *recordingMetrics) RecordError(op, stage string) {
	m.mu.Lock()
	m.errors[op+"/"+stage]++
	m.mu.Unlock()
}

func (m *recordingMetrics) RecordLatency(_ string, d time.Duration) {
	m.mu.Lock()
	m.latencies = append(m.latencies, d)
	m.mu.Unlock()
}

func (m *recordingMetrics) RecordHit(string)  {}
func (m *recordingMetrics) RecordMiss(string) {}

var _ metrics.MetricsRecorder = (*recordingMetrics)(nil)

// ── CountCalls ───────────────────────────────────────────────────────────────

func TestCountCalls_CountsEveryInvocation(t *testing.T) {
	ctx := context.Background()
	ins, _ := newTestInstrumenter(t, storage.InstrumentOptions{})
	wrapped := storage.CountCalls(ins, echoOp, echo)

	for i := 0; i < 5; i++ {
		out, err := wrapped(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "A", out)
	}

	n, err := ins.Calls(ctx, echoOp)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestCountCalls_NeverCalled(t *testing.T) {
	ins, _ := newTestInstrumenter(t, storage.InstrumentOptions{})
	n, err := ins.Calls(context.Background(), "Never.Called")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCountCalls_CountsFailedCalls(t *testing.T) {
	ctx := context.Background()
	ins, _ := newTestInstrumenter(t, storage.InstrumentOptions{})
	boom := errors.New("boom")
	wrapped := storage.CountCalls(ins, echoOp, func(context.Context, string) (string, error) {
		return "", boom
	})

	_, err := wrapped(ctx, "a")
	assert.ErrorIs(t, err, boom)
	_, err = wrapped(ctx, "b")
	assert.ErrorIs(t, err, boom)

	n, err := ins.Calls(ctx, echoOp)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCountCalls_IncrFailureSkipsOperation(t *testing.T) {
	ctx := context.Background()
	m := newRecordingMetrics()
	ins, b := newTestInstrumenter(t, storage.InstrumentOptions{Metrics: m})
	require.NoError(t, b.Set(ctx, echoOp.CounterKey(), []byte("not-a-number")))

	called := false
	wrapped := storage.CountCalls(ins, echoOp, func(context.Context, string) (string, error) {
		called = true
		return "", nil
	})

	_, err := wrapped(ctx, "a")
	assert.ErrorIs(t, err, storage.ErrBackendUnavailable)
	assert.False(t, called)
	assert.Equal(t, 1, m.errors["Test.Echo/count"])
	assert.Zero(t, m.calls["Test.Echo"])
}

func TestCountCalls_Concurrent(t *testing.T) {
	ctx := context.Background()
	ins, _ := newTestInstrumenter(t, storage.InstrumentOptions{})
	wrapped := storage.CountCalls(ins, echoOp, echo)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = wrapped(ctx, "x")
		}()
	}
	wg.Wait()

	n, err := ins.Calls(ctx, echoOp)
	require.NoError(t, err)
	assert.Equal(t, int64(50), n)
}

// ── CallHistory ──────────────────────────────────────────────────────────────

func TestCallHistory_RecordsInputsAndOutputs(t *testing.T) {
	ctx := context.Background()
	ins, b := newTestInstrumenter(t, storage.InstrumentOptions{})
	wrapped := storage.CallHistory(ins, echoOp, echo)

	for _, in := range []string{"first", "second"} {
		_, err := wrapped(ctx, in)
		require.NoError(t, err)
	}

	inputs, err := b.LRange(ctx, echoOp.InputsKey())
	require.NoError(t, err)
	assert.Equal(t, []string{`("first",)`, `("second",)`}, inputs)

	outputs, err := b.LRange(ctx, echoOp.OutputsKey())
	require.NoError(t, err)
	assert.Equal(t, []string{"FIRST", "SECOND"}, outputs)
}

func TestCallHistory_ArgsInput(t *testing.T) {
	ctx := context.Background()
	ins, b := newTestInstrumenter(t, storage.InstrumentOptions{})
	add := storage.CallHistory(ins, "Test.Add", func(_ context.Context, a storage.Args) (int, error) {
		return a[0].(int) + a[1].(int), nil
	})

	sum, err := add(ctx, storage.Args{2, 3})
	require.NoError(t, err)
	assert.Equal(t, 5, sum)

	inputs, err := b.LRange(ctx, "Test.Add:inputs")
	require.NoError(t, err)
	assert.Equal(t, []string{"(2, 3)"}, inputs)
	outputs, err := b.LRange(ctx, "Test.Add:outputs")
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, outputs)
}

func TestCallHistory_FailureMarker(t *testing.T) {
	ctx := context.Background()
	m := newRecordingMetrics()
	ins, b := newTestInstrumenter(t, storage.InstrumentOptions{Metrics: m})
	boom := errors.New("boom")
	wrapped := storage.CallHistory(ins, echoOp, func(_ context.Context, in string) (string, error) {
		if in == "bad" {
			return "", boom
		}
		return in, nil
	})

	_, err := wrapped(ctx, "ok")
	require.NoError(t, err)
	_, err = wrapped(ctx, "bad")
	assert.Same(t, boom, err)

	inputs, err := b.LRange(ctx, echoOp.InputsKey())
	require.NoError(t, err)
	outputs, err := b.LRange(ctx, echoOp.OutputsKey())
	require.NoError(t, err)
	assert.Len(t, outputs, len(inputs))
	assert.Equal(t, []string{"ok", "<error: boom>"}, outputs)
	assert.Equal(t, 1, m.errors["Test.Echo/call"])
}

func TestCallHistory_InputAppendFailureSkipsOperation(t *testing.T) {
	ctx := context.Background()
	ins, b := newTestInstrumenter(t, storage.InstrumentOptions{})
	require.NoError(t, b.Set(ctx, echoOp.InputsKey(), []byte("scalar")))

	called := false
	wrapped := storage.CallHistory(ins, echoOp, func(context.Context, string) (string, error) {
		called = true
		return "", nil
	})

	_, err := wrapped(ctx, "a")
	assert.ErrorIs(t, err, storage.ErrBackendUnavailable)
	assert.ErrorIs(t, err, memstore.ErrWrongType)
	assert.False(t, called)
}

func TestCallHistory_OutputAppendFailure(t *testing.T) {
	ctx := context.Background()
	ins, b := newTestInstrumenter(t, storage.InstrumentOptions{})
	require.NoError(t, b.Set(ctx, echoOp.OutputsKey(), []byte("scalar")))

	called := false
	wrapped := storage.CallHistory(ins, echoOp, func(_ context.Context, in string) (string, error) {
		called = true
		return in, nil
	})

	out, err := wrapped(ctx, "a")
	assert.True(t, called)
	assert.ErrorIs(t, err, storage.ErrBackendUnavailable)
	assert.Empty(t, out)
}

func TestCallHistory_RecordsLatency(t *testing.T) {
	m := newRecordingMetrics()
	clk := clock.NewMock(time.Time{})
	clk.AutoAdvance(5 * time.Millisecond)
	ins, _ := newTestInstrumenter(t, storage.InstrumentOptions{Metrics: m, Clock: clk})

	_, err := storage.CallHistory(ins, echoOp, echo)(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{5 * time.Millisecond}, m.latencies)
}

// ── Composition ──────────────────────────────────────────────────────────────

func TestComposition_RecorderOutsideCounter(t *testing.T) {
	ctx := context.Background()
	ins, b := newTestInstrumenter(t, storage.InstrumentOptions{})
	wrapped := storage.CallHistory(ins, echoOp, storage.CountCalls(ins, echoOp, echo))

	for i := 0; i < 3; i++ {
		_, err := wrapped(ctx, "x")
		require.NoError(t, err)
	}
	n, err := ins.Calls(ctx, echoOp)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// a failed input append leaves the counter untouched
	require.NoError(t, b.Set(ctx, "Other.Op:inputs", []byte("scalar")))
	other := storage.CallHistory(ins, "Other.Op", storage.CountCalls(ins, "Other.Op", echo))
	_, err = other(ctx, "x")
	require.Error(t, err)
	n, err = ins.Calls(ctx, "Other.Op")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestComposition_CounterFailureRecordsMarker(t *testing.T) {
	ctx := context.Background()
	ins, b := newTestInstrumenter(t, storage.InstrumentOptions{})
	require.NoError(t, b.Set(ctx, echoOp.CounterKey(), []byte("nan")))
	wrapped := storage.CallHistory(ins, echoOp, storage.CountCalls(ins, echoOp, echo))

	_, err := wrapped(ctx, "x")
	assert.ErrorIs(t, err, storage.ErrBackendUnavailable)

	outputs, err := b.LRange(ctx, echoOp.OutputsKey())
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.True(t, strings.HasPrefix(outputs[0], "<error: "), outputs[0])
}

// ── Tracing and metrics ──────────────────────────────────────────────────────

func TestCallHistory_Spans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ins, _ := newTestInstrumenter(t, storage.InstrumentOptions{Tracer: tp.Tracer("test")})
	boom := errors.New("boom")
	wrapped := storage.CallHistory(ins, echoOp, func(_ context.Context, in string) (string, error) {
		if in == "bad" {
			return "", boom
		}
		return "ok", nil
	})

	_, err := wrapped(context.Background(), "good")
	require.NoError(t, err)
	_, err = wrapped(context.Background(), "bad")
	require.Error(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "Test.Echo", spans[0].Name())
	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, "Test.Echo", attrs["storage.operation"])
	assert.Equal(t, `("good",)`, attrs["storage.input"])
	assert.Equal(t, "ok", attrs["storage.output"])
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "boom", spans[1].Status().Description)
}

func attrMap(kvs []attribute.KeyValue) map[string]string {
	m := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value.Emit()
	}
	return m
}

func TestInstrumenter_PrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := metrics.NewPrometheus(reg, "storage")
	require.NoError(t, err)

	ins, _ := newTestInstrumenter(t, storage.InstrumentOptions{Metrics: prom})
	wrapped := storage.CallHistory(ins, echoOp, storage.CountCalls(ins, echoOp, echo))
	for i := 0; i < 3; i++ {
		_, err := wrapped(context.Background(), "x")
		require.NoError(t, err)
	}

	expected := `
# HELP storage_calls_total Total number of instrumented operation invocations.
# TYPE storage_calls_total counter
storage_calls_total{operation="Test.Echo"} 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "storage_calls_total"))
	n, err := testutil.GatherAndCount(reg, "storage_call_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
