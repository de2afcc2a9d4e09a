// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// replay.go - reconstructs the call transcript of an operation from its
// inputs and outputs logs and prints it:
//
//	Cache.Store was called 3 times:
//	Cache.Store(*("foo",)) -> 5f1c...
//
// Reading is side-effect free; an operation with no logs has zero calls.

package storage

import (
	"context"
	"fmt"
	"io"
	"strconv"
)

// Call is one invocation of an operation as recorded in its call logs.
type Call struct {
	Input  string `json:"input" msgpack:"input"`
	Output string `json:"output" msgpack:"output"`
}

// Transcript is the call history of one operation.
type Transcript struct {
	Operation Identity `json:"operation" msgpack:"operation"`
	// Count is the length of the inputs log.
	Count int    `json:"count" msgpack:"count"`
	Calls []Call `json:"calls" msgpack:"calls"`
}

// History reads the full inputs and outputs logs of id. Calls pairs the
// i-th input with the i-th output; if an invocation is still in flight the
// outputs log is shorter and Calls stops at the last completed pair.
func History(ctx context.Context, b Backend, id Identity) (Transcript, error) {
	inputs, err := b.LRange(ctx, id.InputsKey())
	if err != nil {
		return Transcript{}, fmt.Errorf("%w: read inputs %s: %w", ErrBackendUnavailable, id, err)
	}
	outputs, err := b.LRange(ctx, id.OutputsKey())
	if err != nil {
		return Transcript{}, fmt.Errorf("%w: read outputs %s: %w", ErrBackendUnavailable, id, err)
	}
	n := min(len(inputs), len(outputs))
	t := Transcript{Operation: id, Count: len(inputs), Calls: make([]Call, n)}
	for i := 0; i < n; i++ {
		t.Calls[i] = Call{Input: inputs[i], Output: outputs[i]}
	}
	return t, nil
}

// WriteTo renders t as text: a header line with the call count followed by
// one "<id>(*<input>) -> <output>" line per call.
func (t Transcript) WriteTo(w io.Writer) (int64, error) {
	var total int64
	n, err := fmt.Fprintf(w, "%s was called %d times:\n", t.Operation, t.Count)
	total += int64(n)
	if err != nil {
		return total, err
	}
	for _, c := range t.Calls {
		n, err := fmt.Fprintf(w, "%s(*%s) -> %s\n", t.Operation, c.Input, c.Output)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Replay prints the call transcript of id read from b to w.
func Replay(ctx context.Context, b Backend, id Identity, w io.Writer) error {
	t, err := History(ctx, b, id)
	if err != nil {
		return err
	}
	_, err = t.WriteTo(w)
	return err
}

// readCounter returns the counter of id, or zero if it was never incremented.
func readCounter(ctx context.Context, b Backend, id Identity) (int64, error) {
	raw, ok, err := b.Get(ctx, id.CounterKey())
	if err != nil {
		return 0, fmt.Errorf("%w: read counter %s: %w", ErrBackendUnavailable, id, err)
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: counter %s: %w", ErrDecodeFailed, id, err)
	}
	return n, nil
}
