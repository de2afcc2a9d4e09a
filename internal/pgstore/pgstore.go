// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// pgstore.go - PostgreSQL backend: values and counters live in one keyed
// table, call logs in an append-only table ordered by a BIGSERIAL id.
// Migrate creates both tables idempotently.

// Package pgstore provides the PostgreSQL backend adapter.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	kvTable   = "storage_kv"
	listTable = "storage_lists"
)

// Store is the PostgreSQL backend adapter.
type Store struct {
	pool      *pgxpool.Pool
	keyPrefix string
}

// Options configures a new Store.
type Options struct {
	KeyPrefix string
}

// New creates a new Store from an existing pool.
func New(pool *pgxpool.Pool, opts Options) *Store {
	return &Store{pool: pool, keyPrefix: opts.KeyPrefix}
}

// Open parses dsn, connects a pool and runs Migrate.
func Open(ctx context.Context, dsn string, opts Options, tune func(*pgxpool.Config)) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres config: %w", err)
	}
	if tune != nil {
		tune(cfg)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	s := New(pool, opts)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) key(k string) string {
	if s.keyPrefix != "" {
		return s.keyPrefix + ":" + k
	}
	return k
}

// Migrate creates the backing tables if they do not exist (idempotent).
func (s *Store) Migrate(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pg migrate begin: %w", err)
	}
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
key   TEXT PRIMARY KEY,
value BYTEA NOT NULL
)`, kvTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
id    BIGSERIAL PRIMARY KEY,
key   TEXT NOT NULL,
value TEXT NOT NULL
)`, listTable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_key ON %s (key, id)`, listTable, listTable),
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("pg migrate: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("pg migrate commit: %w", err)
	}
	return nil
}

// Set upserts value under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	k := s.key(key)
	sql := fmt.Sprintf(
		"INSERT INTO %s (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value",
		kvTable)
	if value == nil {
		value = []byte{}
	}
	if _, err := s.pool.Exec(ctx, sql, k, value); err != nil {
		return fmt.Errorf("pg set %s: %w", k, err)
	}
	return nil
}

// Get retrieves the bytes stored under key. ok is false when the row is absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	k := s.key(key)
	var b []byte
	err := s.pool.QueryRow(ctx, fmt.Sprintf("SELECT value FROM %s WHERE key = $1", kvTable), k).Scan(&b)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("pg get %s: %w", k, err)
	}
	return b, true, nil
}

// Incr atomically increments the decimal counter stored under key. A value
// that is not an integer makes the cast fail and the error is returned.
func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	k := s.key(key)
	sql := fmt.Sprintf(`INSERT INTO %[1]s (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE
SET value = convert_to((convert_from(%[1]s.value, 'UTF8')::bigint + 1)::text, 'UTF8')
RETURNING convert_from(value, 'UTF8')`, kvTable)
	var text string
	if err := s.pool.QueryRow(ctx, sql, k, []byte("1")).Scan(&text); err != nil {
		return 0, fmt.Errorf("pg incr %s: %w", k, err)
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("pg incr %s: %w", k, err)
	}
	return n, nil
}

// RPush appends value to the list stored under key.
func (s *Store) RPush(ctx context.Context, key, value string) error {
	k := s.key(key)
	sql := fmt.Sprintf("INSERT INTO %s (key, value) VALUES ($1, $2)", listTable)
	if _, err := s.pool.Exec(ctx, sql, k, value); err != nil {
		return fmt.Errorf("pg rpush %s: %w", k, err)
	}
	return nil
}

// LRange returns the full list stored under key in append order.
func (s *Store) LRange(ctx context.Context, key string) ([]string, error) {
	k := s.key(key)
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf("SELECT value FROM %s WHERE key = $1 ORDER BY id", listTable), k)
	if err != nil {
		return nil, fmt.Errorf("pg lrange %s: %w", k, err)
	}
	vals, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("pg lrange %s: %w", k, err)
	}
	if vals == nil {
		vals = []string{}
	}
	return vals, nil
}

// Flush clears both tables, or only the prefixed keys when a prefix is set.
func (s *Store) Flush(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pg flush begin: %w", err)
	}
	for _, table := range []string{kvTable, listTable} {
		var execErr error
		if s.keyPrefix == "" {
			_, execErr = tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		} else {
			_, execErr = tx.Exec(ctx,
				fmt.Sprintf("DELETE FROM %s WHERE starts_with(key, $1)", table), s.keyPrefix+":")
		}
		if execErr != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("pg flush %s: %w", table, execErr)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("pg flush commit: %w", err)
	}
	return nil
}

// Ping verifies the pool is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Pool returns the underlying connection pool.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Close shuts down the underlying connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
