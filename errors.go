// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// errors.go - sentinel error variables returned by the public storage API,
// covering backend availability, value encoding and decoding, call-log
// parsing, and configuration.

// Package storage provides a key-value cache over a pluggable backend
// (Redis, in-memory, PostgreSQL or SQLite) whose operations can be wrapped
// with call counters and input/output history recorders, and replayed as a
// human-readable transcript.
package storage

import "errors"

// Lifecycle errors
var (
	ErrUnavailable = errors.New("storage: cache closed")
)

// Backend errors
var (
	ErrBackendUnavailable = errors.New("storage: backend unavailable")
	ErrUnknownBackend     = errors.New("storage: unknown backend driver")
)

// Data errors
var (
	ErrDecodeFailed = errors.New("storage: failed to decode stored value")
	ErrEncodeFailed = errors.New("storage: failed to encode value for storage")
)

// Call log errors
var (
	ErrMalformedArgs = errors.New("storage: malformed call arguments entry")
)

// Config errors
var (
	ErrInvalidConfig = errors.New("storage: invalid configuration")
)
