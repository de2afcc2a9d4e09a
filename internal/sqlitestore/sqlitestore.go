// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// sqlitestore.go - single-file SQLite backend built on database/sql and the
// pure-Go modernc.org/sqlite driver. Writes are serialised through a single
// connection so INCR and RPUSH stay atomic without SQLITE_BUSY retries.

// Package sqlitestore provides the SQLite backend adapter.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// ErrNotInteger is returned by Incr when the stored value is not a decimal integer.
var ErrNotInteger = errors.New("sqlitestore: value is not an integer")

// Store is the SQLite backend adapter.
type Store struct {
	db        *sql.DB
	keyPrefix string
}

// Options configures a Store.
type Options struct {
	KeyPrefix string
}

// Open opens (creating if needed) the database at path and its tables.
func Open(ctx context.Context, path string, opts Options) (*Store, error) {
	if path == "" {
		path = "storage.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	s := &Store{db: db, keyPrefix: opts.KeyPrefix}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`,
		`CREATE TABLE IF NOT EXISTS lists (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		key   TEXT NOT NULL,
		value TEXT NOT NULL
	)`,
		`CREATE INDEX IF NOT EXISTS idx_lists_key ON lists (key, id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite migrate: %w", err)
		}
	}
	return nil
}

func (s *Store) key(k string) string {
	if s.keyPrefix != "" {
		return s.keyPrefix + ":" + k
	}
	return k
}

// Set upserts value under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	k := s.key(key)
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		k, value)
	if err != nil {
		return fmt.Errorf("sqlite set %s: %w", k, err)
	}
	return nil
}

// Get retrieves the bytes stored under key. ok is false when the row is absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	k := s.key(key)
	var b []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, k).Scan(&b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("sqlite get %s: %w", k, err)
	}
	if b == nil {
		b = []byte{}
	}
	return b, true, nil
}

// Incr increments the decimal counter stored under key inside a transaction.
func (s *Store) Incr(ctx context.Context, key string) (n int64, retErr error) {
	k := s.key(key)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite incr %s: %w", k, err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	var cur []byte
	err = tx.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, k).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		n = 1
	case err != nil:
		return 0, fmt.Errorf("sqlite incr %s: %w", k, err)
	default:
		prev, perr := strconv.ParseInt(string(cur), 10, 64)
		if perr != nil {
			return 0, fmt.Errorf("sqlite incr %s: %w", k, ErrNotInteger)
		}
		n = prev + 1
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		k, []byte(strconv.FormatInt(n, 10))); err != nil {
		return 0, fmt.Errorf("sqlite incr %s: %w", k, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite incr %s: %w", k, err)
	}
	return n, nil
}

// RPush appends value to the list stored under key.
func (s *Store) RPush(ctx context.Context, key, value string) error {
	k := s.key(key)
	if _, err := s.db.ExecContext(ctx, `INSERT INTO lists (key, value) VALUES (?, ?)`, k, value); err != nil {
		return fmt.Errorf("sqlite rpush %s: %w", k, err)
	}
	return nil
}

// LRange returns the full list stored under key in append order.
func (s *Store) LRange(ctx context.Context, key string) ([]string, error) {
	k := s.key(key)
	rows, err := s.db.QueryContext(ctx, `SELECT value FROM lists WHERE key = ? ORDER BY id`, k)
	if err != nil {
		return nil, fmt.Errorf("sqlite lrange %s: %w", k, err)
	}
	defer func() { _ = rows.Close() }()
	vals := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("sqlite lrange %s: %w", k, err)
		}
		vals = append(vals, v)
	}
	return vals, rows.Err()
}

// Flush deletes every row, or only the prefixed rows when a prefix is set.
func (s *Store) Flush(ctx context.Context) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite flush: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, table := range []string{"kv", "lists"} {
		if s.keyPrefix == "" {
			_, err = tx.ExecContext(ctx, "DELETE FROM "+table)
		} else {
			_, err = tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE instr(key, ?) = 1",
				s.keyPrefix+":")
		}
		if err != nil {
			return fmt.Errorf("sqlite flush %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
