// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// backend.go - the Backend interface the cache and instrumentation run on,
// and openBackend, which builds the configured implementation (Redis,
// in-memory, PostgreSQL or SQLite) from Config.

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/temifoden/alx-backend-storage/internal/memstore"
	"github.com/temifoden/alx-backend-storage/internal/pgstore"
	"github.com/temifoden/alx-backend-storage/internal/redisstore"
	"github.com/temifoden/alx-backend-storage/internal/sqlitestore"
)

// Backend drivers accepted by Config.Driver.
const (
	DriverRedis    = "redis"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Backend is the external key-value/list store. Each primitive must be
// atomic on its own; nothing spans two primitives.
type Backend interface {
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Get returns the value under key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Incr increments the decimal counter under key, creating it at 1.
	Incr(ctx context.Context, key string) (int64, error)
	// RPush appends value to the list under key.
	RPush(ctx context.Context, key, value string) error
	// LRange returns the whole list under key; absent lists are empty.
	LRange(ctx context.Context, key string) ([]string, error)
	// Flush removes every key the backend owns.
	Flush(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Backend = (*memstore.Store)(nil)
	_ Backend = (*redisstore.Store)(nil)
	_ Backend = (*pgstore.Store)(nil)
	_ Backend = (*sqlitestore.Store)(nil)
)

// openBackend builds the Backend selected by cfg.Driver.
func openBackend(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Driver {
	case DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			PoolSize:     cfg.RedisPool.PoolSize,
			DialTimeout:  cfg.RedisPool.DialTimeout,
			ReadTimeout:  cfg.RedisPool.ReadTimeout,
			WriteTimeout: cfg.RedisPool.WriteTimeout,
		})
		return redisstore.New(redisstore.Options{Client: client, KeyPrefix: cfg.KeyPrefix}), nil
	case DriverMemory:
		return memstore.New(memstore.Options{KeyPrefix: cfg.KeyPrefix}), nil
	case DriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("%w: postgres driver requires PostgresDSN", ErrInvalidConfig)
		}
		s, err := pgstore.Open(ctx, cfg.PostgresDSN, pgstore.Options{KeyPrefix: cfg.KeyPrefix},
			func(pc *pgxpool.Config) {
				pc.MaxConns = cfg.PostgresPool.MaxConns
				pc.MinConns = cfg.PostgresPool.MinConns
				pc.MaxConnLifetime = cfg.PostgresPool.MaxConnLifetime
				pc.MaxConnIdleTime = cfg.PostgresPool.MaxConnIdleTime
			})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
		}
		return s, nil
	case DriverSQLite:
		s, err := sqlitestore.Open(ctx, cfg.SQLitePath, sqlitestore.Options{KeyPrefix: cfg.KeyPrefix})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Driver)
	}
}
