// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// memstore.go - sharded, concurrent in-process key-value/list store used
// when no external backend is configured and in tests. Each key holds either
// a byte value or an append-only list, mirroring the Redis primitives the
// instrumentation relies on.

// Package memstore provides an in-process implementation of the backend
// primitives (SET/GET/INCR/RPUSH/LRANGE/FLUSH).
package memstore

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"
	"sync/atomic"
)

const numShards = 64

// ErrWrongType is returned when a value operation targets a list key or
// vice versa.
var ErrWrongType = errors.New("memstore: operation against a key holding the wrong kind of value")

// ErrNotInteger is returned by Incr when the stored value is not a decimal integer.
var ErrNotInteger = errors.New("memstore: value is not an integer")

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("memstore: store closed")

// entry holds either a byte value or a list.
type entry struct {
	value  []byte
	list   []string
	isList bool
}

// shard is one partition of the store.
type shard struct {
	mu    sync.Mutex
	items map[string]*entry
}

// Store is the sharded in-memory store.
type Store struct {
	shards    [numShards]*shard
	keyPrefix string
	hits      atomic.Int64
	misses    atomic.Int64
	closed    atomic.Bool
}

// Options configures a Store.
type Options struct {
	KeyPrefix string
}

// New creates a new Store.
func New(opts Options) *Store {
	s := &Store{keyPrefix: opts.KeyPrefix}
	for i := 0; i < numShards; i++ {
		s.shards[i] = &shard{items: make(map[string]*entry)}
	}
	return s
}

func (s *Store) key(k string) string {
	if s.keyPrefix != "" {
		return s.keyPrefix + ":" + k
	}
	return k
}

func (s *Store) getShard(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()%numShards]
}

// Set stores a copy of value under key, replacing whatever was there.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}
	k := s.key(key)
	sh := s.getShard(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.items[k] = &entry{value: append([]byte{}, value...)}
	return nil
}

// Get returns a copy of the value stored under key. ok is false when the
// key does not exist.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	if s.closed.Load() {
		return nil, false, ErrClosed
	}
	k := s.key(key)
	sh := s.getShard(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, ok := sh.items[k]
	if !ok {
		s.misses.Add(1)
		return nil, false, nil
	}
	if e.isList {
		return nil, false, fmt.Errorf("get %s: %w", k, ErrWrongType)
	}
	s.hits.Add(1)
	return append([]byte{}, e.value...), true, nil
}

// Incr increments the integer stored under key by one, creating it at 1.
func (s *Store) Incr(_ context.Context, key string) (int64, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	k := s.key(key)
	sh := s.getShard(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, ok := sh.items[k]
	if !ok {
		sh.items[k] = &entry{value: []byte("1")}
		return 1, nil
	}
	if e.isList {
		return 0, fmt.Errorf("incr %s: %w", k, ErrWrongType)
	}
	n, err := strconv.ParseInt(string(e.value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", k, ErrNotInteger)
	}
	n++
	e.value = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

// RPush appends value to the list stored under key, creating it if needed.
func (s *Store) RPush(_ context.Context, key, value string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	k := s.key(key)
	sh := s.getShard(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, ok := sh.items[k]
	if !ok {
		sh.items[k] = &entry{list: []string{value}, isList: true}
		return nil
	}
	if !e.isList {
		return fmt.Errorf("rpush %s: %w", k, ErrWrongType)
	}
	e.list = append(e.list, value)
	return nil
}

// LRange returns a copy of the full list stored under key; a missing key
// yields an empty list.
func (s *Store) LRange(_ context.Context, key string) ([]string, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	k := s.key(key)
	sh := s.getShard(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, ok := sh.items[k]
	if !ok {
		return []string{}, nil
	}
	if !e.isList {
		return nil, fmt.Errorf("lrange %s: %w", k, ErrWrongType)
	}
	return append([]string{}, e.list...), nil
}

// Flush removes every key belonging to this store. With a key prefix only
// the prefixed keys are removed.
func (s *Store) Flush(_ context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	prefix := ""
	if s.keyPrefix != "" {
		prefix = s.keyPrefix + ":"
	}
	for i := 0; i < numShards; i++ {
		sh := s.shards[i]
		sh.mu.Lock()
		if prefix == "" {
			sh.items = make(map[string]*entry)
		} else {
			for k := range sh.items {
				if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
					delete(sh.items, k)
				}
			}
		}
		sh.mu.Unlock()
	}
	return nil
}

// Ping reports whether the store is open.
func (s *Store) Ping(_ context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return nil
}

// Close marks the store closed. Subsequent operations return ErrClosed.
func (s *Store) Close() error {
	s.closed.Store(true)
	return nil
}

// Stats holds hit/miss/entry counts.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int64
}

// Stats returns current statistics.
func (s *Store) Stats() Stats {
	var total int64
	for i := 0; i < numShards; i++ {
		sh := s.shards[i]
		sh.mu.Lock()
		total += int64(len(sh.items))
		sh.mu.Unlock()
	}
	return Stats{Hits: s.hits.Load(), Misses: s.misses.Load(), Entries: total}
}
