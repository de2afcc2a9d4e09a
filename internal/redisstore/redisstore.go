// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// redisstore.go - Redis-backed store: SET/GET for values, INCR for call
// counters, RPUSH/LRANGE for call logs, and a prefix-aware flush that uses
// SCAN+DEL instead of FLUSHDB when the store is namespaced.

// Package redisstore provides the Redis backend adapter.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// Store is the Redis backend adapter.
type Store struct {
	client    redis.UniversalClient
	keyPrefix string
	hits      atomic.Int64
	misses    atomic.Int64
}

// Options configures a new Store.
type Options struct {
	Client    redis.UniversalClient
	KeyPrefix string
}

// New creates a new Store.
func New(opts Options) *Store {
	return &Store{client: opts.Client, keyPrefix: opts.KeyPrefix}
}

// key returns the namespaced Redis key.
func (s *Store) key(k string) string {
	if s.keyPrefix != "" {
		return s.keyPrefix + ":" + k
	}
	return k
}

// Set stores value under key with no expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	k := s.key(key)
	if err := s.client.Set(ctx, k, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", k, err)
	}
	return nil
}

// Get retrieves the raw bytes stored under key. ok is false on a miss.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	k := s.key(key)
	b, err := s.client.Get(ctx, k).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.misses.Add(1)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", k, err)
	}
	s.hits.Add(1)
	return b, true, nil
}

// Incr atomically increments the counter stored under key.
func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	k := s.key(key)
	n, err := s.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", k, err)
	}
	return n, nil
}

// RPush appends value to the list stored under key.
func (s *Store) RPush(ctx context.Context, key, value string) error {
	k := s.key(key)
	if err := s.client.RPush(ctx, k, value).Err(); err != nil {
		return fmt.Errorf("redis rpush %s: %w", k, err)
	}
	return nil
}

// LRange returns the full list stored under key.
func (s *Store) LRange(ctx context.Context, key string) ([]string, error) {
	k := s.key(key)
	vals, err := s.client.LRange(ctx, k, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange %s: %w", k, err)
	}
	return vals, nil
}

// Flush clears the store. Without a key prefix this is FLUSHDB; with one,
// only keys under the prefix are removed using SCAN+DEL (production-safe).
func (s *Store) Flush(ctx context.Context) error {
	if s.keyPrefix == "" {
		if err := s.client.FlushDB(ctx).Err(); err != nil {
			return fmt.Errorf("redis flushdb: %w", err)
		}
		return nil
	}
	// Collect the full scan before deleting; deleting mid-scan can make
	// index-based cursors skip keys.
	pattern := s.keyPrefix + ":*"
	var all []string
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		all = append(all, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	for len(all) > 0 {
		n := min(len(all), 100)
		if err := s.client.Del(ctx, all[:n]...).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
		all = all[n:]
	}
	return nil
}

// Ping checks that Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Stats holds hit and miss counts.
type Stats struct {
	Hits   int64
	Misses int64
}

// Stats returns current statistics.
func (s *Store) Stats() Stats {
	return Stats{Hits: s.hits.Load(), Misses: s.misses.Load()}
}

// FormatKey returns the namespaced key for external use.
func (s *Store) FormatKey(key string) string {
	return s.key(key)
}
