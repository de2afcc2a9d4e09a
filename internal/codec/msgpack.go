// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// msgpack.go - compact binary export via vmihailenco/msgpack.

package codec

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgPack encodes with sorted map keys. Structs, map[string]string and
// map[string]any encode to the same bytes for equal values; other map types
// go through msgpack's generic path and keep Go's iteration order.
type MsgPack struct{}

func (MsgPack) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (MsgPack) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

func (MsgPack) Name() string { return "msgpack" }
