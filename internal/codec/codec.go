// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// codec.go - Codec interface and name lookup used to export call
// transcripts in machine-readable form.

// Package codec provides encode/decode interfaces for transcript export.
package codec

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCodec is returned by ByName for an unregistered codec name.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Codec encodes and decodes values for export.
type Codec interface {
	// Marshal serializes v into bytes.
	Marshal(v any) ([]byte, error)
	// Unmarshal deserializes data into v (must be a pointer).
	Unmarshal(data []byte, v any) error
	// Name returns the codec identifier used for diagnostics and lookup.
	Name() string
}

var registry = map[string]Codec{
	JSON{}.Name():    JSON{},
	MsgPack{}.Name(): MsgPack{},
}

// ByName returns the codec registered under name.
func ByName(name string) (Codec, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownCodec, name, Names())
	}
	return c, nil
}

// Names returns the registered codec names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
