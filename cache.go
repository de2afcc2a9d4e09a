// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// cache.go - Cache, the storage facade: Store writes a Value under a fresh
// random key (counted and recorded under StoreOp), Get and its typed
// variants read it back, and Calls/History/Replay/Reset expose the
// instrumentation state.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync/atomic"
	"unicode/utf8"

	"github.com/temifoden/alx-backend-storage/internal/metrics"
)

// getOp labels lookup metrics.
const getOp = "Cache.Get"

type cacheStats struct {
	Stores atomic.Int64
	Gets   atomic.Int64
	Hits   atomic.Int64
	Misses atomic.Int64
	Errors atomic.Int64
}

// Stats is the snapshot returned by Cache.Stats().
type Stats struct {
	Stores int64
	Gets   int64
	Hits   int64
	Misses int64
	Errors int64
}

// Cache is the instrumented key-value cache.
type Cache struct {
	cfg         Config
	backend     Backend
	ownsBackend bool
	ins         *Instrumenter
	store       Func[Value, string]
	sealer      Sealer
	stats       cacheStats
	metrics     metrics.MetricsRecorder
	logger      Logger
	closed      atomic.Bool
}

// New creates a Cache from cfg. If cfg.Backend is nil a backend is opened
// according to cfg.Driver and closed again by Close. The backend is only
// flushed here when cfg.FlushOnStart is set; use Reset otherwise.
func New(ctx context.Context, cfg Config) (*Cache, error) {
	cfg.defaults()

	c := &Cache{
		cfg:     cfg,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}

	if len(cfg.EncryptionKey) > 0 {
		sealer, err := NewAES256GCM(cfg.EncryptionKey)
		if err != nil {
			return nil, err
		}
		c.sealer = sealer
	}

	if cfg.Backend != nil {
		c.backend = cfg.Backend
	} else {
		b, err := openBackend(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.backend = b
		c.ownsBackend = true
	}

	c.ins = NewInstrumenter(c.backend, InstrumentOptions{
		Metrics: cfg.Metrics,
		Tracer:  cfg.Tracer,
		Logger:  cfg.Logger,
		Clock:   cfg.Clock,
	})
	c.store = CallHistory(c.ins, StoreOp, CountCalls(c.ins, StoreOp, c.rawStore))

	if cfg.FlushOnStart {
		if err := c.backend.Flush(ctx); err != nil {
			c.closeOwned()
			return nil, fmt.Errorf("%w: flush on start: %w", ErrBackendUnavailable, err)
		}
	}
	c.logger.Debug("storage: cache ready", "driver", cfg.Driver, "key_prefix", cfg.KeyPrefix)
	return c, nil
}

// rawStore is the uninstrumented store operation.
func (c *Cache) rawStore(ctx context.Context, v Value) (string, error) {
	key := c.cfg.KeyFunc()
	data := v.Encode()
	if c.sealer != nil {
		sealed, err := c.sealer.Seal(key, data)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrEncodeFailed, err)
		}
		data = sealed
	}
	if err := c.backend.Set(ctx, key, data); err != nil {
		return "", fmt.Errorf("%w: store: %w", ErrBackendUnavailable, err)
	}
	return key, nil
}

// ────────────────────────────────────────────────────────────────────────────
// Store / Get
// ────────────────────────────────────────────────────────────────────────────

// Store writes v under a freshly generated key and returns the key. Each
// call increments the StoreOp counter and appends to its call logs.
func (c *Cache) Store(ctx context.Context, v Value) (string, error) {
	if c.closed.Load() {
		return "", ErrUnavailable
	}
	c.stats.Stores.Add(1)
	key, err := c.store(ctx, v)
	if err != nil {
		c.stats.Errors.Add(1)
		return "", err
	}
	return key, nil
}

// Get returns the raw bytes stored under key. A missing key is not an
// error: ok is false and the bytes are nil.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.closed.Load() {
		return nil, false, ErrUnavailable
	}
	c.stats.Gets.Add(1)
	raw, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		c.stats.Errors.Add(1)
		c.metrics.RecordError(getOp, "get")
		return nil, false, fmt.Errorf("%w: get %s: %w", ErrBackendUnavailable, key, err)
	}
	if !ok {
		c.stats.Misses.Add(1)
		c.metrics.RecordMiss(getOp)
		return nil, false, nil
	}
	if c.sealer != nil {
		plain, err := c.sealer.Open(key, raw)
		if err != nil {
			c.stats.Errors.Add(1)
			c.metrics.RecordError(getOp, "decrypt")
			return nil, false, fmt.Errorf("%w: decrypt %s: %w", ErrDecodeFailed, key, err)
		}
		raw = plain
	}
	c.stats.Hits.Add(1)
	c.metrics.RecordHit(getOp)
	return raw, true, nil
}

// GetAs reads key and converts the stored bytes with decode. A missing key
// returns the zero T with ok false and no error; a decode failure wraps
// ErrDecodeFailed. With a nil decode, T must be []byte.
func GetAs[T any](ctx context.Context, c *Cache, key string, decode func([]byte) (T, error)) (T, bool, error) {
	var zero T
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	if decode == nil {
		if v, isT := any(raw).(T); isT {
			return v, true, nil
		}
		return zero, false, fmt.Errorf("%w: %s: no decode function for %T", ErrDecodeFailed, key, zero)
	}
	v, err := decode(raw)
	if err != nil {
		c.stats.Errors.Add(1)
		return zero, false, fmt.Errorf("%w: %s: %w", ErrDecodeFailed, key, err)
	}
	return v, true, nil
}

// DecodeString decodes UTF-8 text.
func DecodeString(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", errors.New("invalid UTF-8")
	}
	return string(b), nil
}

// DecodeInt decodes a decimal integer.
func DecodeInt(b []byte) (int64, error) {
	return strconv.ParseInt(string(b), 10, 64)
}

// DecodeFloat decodes a floating-point number.
func DecodeFloat(b []byte) (float64, error) {
	return strconv.ParseFloat(string(b), 64)
}

// GetStr reads key as UTF-8 text.
func (c *Cache) GetStr(ctx context.Context, key string) (string, bool, error) {
	return GetAs(ctx, c, key, DecodeString)
}

// GetInt reads key as a decimal integer.
func (c *Cache) GetInt(ctx context.Context, key string) (int64, bool, error) {
	return GetAs(ctx, c, key, DecodeInt)
}

// GetFloat reads key as a floating-point number.
func (c *Cache) GetFloat(ctx context.Context, key string) (float64, bool, error) {
	return GetAs(ctx, c, key, DecodeFloat)
}

// ────────────────────────────────────────────────────────────────────────────
// Instrumentation state
// ────────────────────────────────────────────────────────────────────────────

// Instrumenter returns the Instrumenter bound to the cache's backend, for
// wrapping further operations with CountCalls and CallHistory.
func (c *Cache) Instrumenter() *Instrumenter { return c.ins }

// Backend returns the backend the cache runs on.
func (c *Cache) Backend() Backend { return c.backend }

// Calls returns the counter of id (zero if it was never called).
func (c *Cache) Calls(ctx context.Context, id Identity) (int64, error) {
	if c.closed.Load() {
		return 0, ErrUnavailable
	}
	return readCounter(ctx, c.backend, id)
}

// History returns the call transcript of id.
func (c *Cache) History(ctx context.Context, id Identity) (Transcript, error) {
	if c.closed.Load() {
		return Transcript{}, ErrUnavailable
	}
	return History(ctx, c.backend, id)
}

// Replay prints the call transcript of id to w.
func (c *Cache) Replay(ctx context.Context, id Identity, w io.Writer) error {
	if c.closed.Load() {
		return ErrUnavailable
	}
	return Replay(ctx, c.backend, id, w)
}

// Reset clears every value, counter and call log in the backend.
func (c *Cache) Reset(ctx context.Context) error {
	if c.closed.Load() {
		return ErrUnavailable
	}
	if err := c.backend.Flush(ctx); err != nil {
		return fmt.Errorf("%w: reset: %w", ErrBackendUnavailable, err)
	}
	c.logger.Info("storage: backend flushed", "driver", c.cfg.Driver)
	return nil
}

// ────────────────────────────────────────────────────────────────────────────
// Stats / Close
// ────────────────────────────────────────────────────────────────────────────

// Stats returns a snapshot of operational counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Stores: c.stats.Stores.Load(),
		Gets:   c.stats.Gets.Load(),
		Hits:   c.stats.Hits.Load(),
		Misses: c.stats.Misses.Load(),
		Errors: c.stats.Errors.Load(),
	}
}

// Close releases the backend if the cache opened it. Further calls return
// ErrUnavailable.
func (c *Cache) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.closeOwned()
}

func (c *Cache) closeOwned() error {
	if !c.ownsBackend {
		return nil
	}
	return c.backend.Close()
}
