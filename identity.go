// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)

package storage

// Identity names an instrumented operation. It namespaces the operation's
// call counter and its inputs/outputs logs, so it must be stable across
// calls and distinct between operations.
type Identity string

// Operation identities of the Cache's own instrumented methods.
const (
	StoreOp Identity = "Cache.Store"
)

// CounterKey is the backend key holding the call counter.
func (id Identity) CounterKey() string { return string(id) }

// InputsKey is the backend list holding serialized call inputs.
func (id Identity) InputsKey() string { return string(id) + ":inputs" }

// OutputsKey is the backend list holding serialized call results.
func (id Identity) OutputsKey() string { return string(id) + ":outputs" }

func (id Identity) String() string { return string(id) }
