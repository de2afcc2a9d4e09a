// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// config.go - Config for a Cache: backend selection and connection settings
// (parsed from STORAGE_* environment variables), plus optional components
// (backend handle, clock, metrics, logger, tracer, key generator) that can
// only be set in code.

package storage

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/temifoden/alx-backend-storage/internal/clock"
	"github.com/temifoden/alx-backend-storage/internal/metrics"
)

// Re-export types so callers only import this package.
type (
	MetricsRecorder = metrics.MetricsRecorder
	Clock           = clock.Clock
)

// tracerName is the instrumentation scope of spans started by this package.
const tracerName = "github.com/temifoden/alx-backend-storage"

// RedisPoolConfig configures the Redis client.
type RedisPoolConfig struct {
	PoolSize     int           `env:"STORAGE_REDIS_POOL_SIZE"`
	DialTimeout  time.Duration `env:"STORAGE_REDIS_DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `env:"STORAGE_REDIS_READ_TIMEOUT"`
	WriteTimeout time.Duration `env:"STORAGE_REDIS_WRITE_TIMEOUT"`
}

// PostgresPoolConfig configures the PostgreSQL connection pool.
type PostgresPoolConfig struct {
	MaxConns        int32         `env:"STORAGE_PG_MAX_CONNS"`
	MinConns        int32         `env:"STORAGE_PG_MIN_CONNS"`
	MaxConnLifetime time.Duration `env:"STORAGE_PG_MAX_CONN_LIFETIME"`
	MaxConnIdleTime time.Duration `env:"STORAGE_PG_MAX_CONN_IDLE_TIME"`
}

// Config contains all Cache configuration.
type Config struct {
	// Backend selection: redis | memory | postgres | sqlite.
	Driver string `env:"STORAGE_DRIVER"`

	// Connection settings
	RedisAddr     string `env:"STORAGE_REDIS_ADDR"`
	RedisPassword string `env:"STORAGE_REDIS_PASSWORD"`
	RedisDB       int    `env:"STORAGE_REDIS_DB"`
	PostgresDSN   string `env:"STORAGE_POSTGRES_DSN"`
	SQLitePath    string `env:"STORAGE_SQLITE_PATH"`

	// Pool sizes
	RedisPool    RedisPoolConfig
	PostgresPool PostgresPoolConfig

	// KeyPrefix namespaces every key the cache writes ("<prefix>:<key>").
	KeyPrefix string `env:"STORAGE_KEY_PREFIX"`

	// FlushOnStart clears the backend when the Cache is created.
	FlushOnStart bool `env:"STORAGE_FLUSH_ON_START"`

	// Backend, when set, is used instead of opening one from Driver. The
	// Cache does not close a backend it did not open.
	Backend Backend

	// Optional overrideable components
	Clock   clock.Clock
	Metrics metrics.MetricsRecorder
	Logger  Logger
	Tracer  trace.Tracer
	KeyFunc func() string

	// Encryption key (must be 32 bytes for AES-256-GCM; nil = disabled).
	EncryptionKey []byte
}

func (c *Config) defaults() {
	if c.Driver == "" {
		c.Driver = DriverRedis
	}
	if c.RedisAddr == "" {
		c.RedisAddr = "localhost:6379"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "storage.db"
	}
	if c.Clock == nil {
		c.Clock = clock.Real{}
	}
	if c.Metrics == nil {
		c.Metrics = metrics.Noop{}
	}
	if c.Logger == nil {
		c.Logger = noopLogger{}
	}
	if c.Tracer == nil {
		c.Tracer = otel.Tracer(tracerName)
	}
	if c.KeyFunc == nil {
		c.KeyFunc = uuid.NewString
	}
	if c.PostgresPool.MaxConns == 0 {
		c.PostgresPool.MaxConns = 10
	}
	if c.PostgresPool.MinConns == 0 {
		c.PostgresPool.MinConns = 1
	}
	if c.PostgresPool.MaxConnLifetime == 0 {
		c.PostgresPool.MaxConnLifetime = 30 * time.Minute
	}
	if c.PostgresPool.MaxConnIdleTime == 0 {
		c.PostgresPool.MaxConnIdleTime = 10 * time.Minute
	}
}

// ConfigFromEnv loads a Config from STORAGE_* environment variables.
// Unset variables are left zero and take their defaults in New.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse env: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}
