// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// value.go - Value, the tagged variant accepted by Cache.Store: text, raw
// bytes, integer or floating point. Encode gives the stored representation,
// Repr the unambiguous form written to call logs.

package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindText Kind = iota
	KindBytes
	KindInteger
	KindFloat
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a storable value. The zero Value is the empty text.
type Value struct {
	kind Kind
	text string
	raw  []byte
	i    int64
	f    float64
}

// Text returns a text Value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bytes returns a bytes Value holding a copy of b.
func Bytes(b []byte) Value { return Value{kind: KindBytes, raw: append([]byte(nil), b...)} }

// Integer returns an integer Value.
func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }

// Float returns a floating-point Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Text returns the text held by v and whether v is a text Value.
func (v Value) Text() (string, bool) { return v.text, v.kind == KindText }

// Bytes returns a copy of the bytes held by v and whether v is a bytes Value.
func (v Value) Bytes() ([]byte, bool) {
	return append([]byte(nil), v.raw...), v.kind == KindBytes
}

// Int returns the integer held by v and whether v is an integer Value.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInteger }

// Float returns the float held by v and whether v is a float Value.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// Encode returns the bytes written to the backend: UTF-8 text, the raw
// bytes, a decimal integer, or the shortest float that round-trips.
func (v Value) Encode() []byte {
	switch v.kind {
	case KindBytes:
		return append([]byte(nil), v.raw...)
	case KindInteger:
		return []byte(strconv.FormatInt(v.i, 10))
	case KindFloat:
		return []byte(formatFloat(v.f))
	default:
		return []byte(v.text)
	}
}

// String returns the plain form of v, as it appears in an output log.
func (v Value) String() string {
	return string(v.Encode())
}

// Repr returns the call-log form of v. Text is Go-quoted, bytes are quoted
// with a b prefix, integers are decimal, and floats always carry a '.',
// exponent, Inf or NaN so they never read back as integers.
func (v Value) Repr() string {
	switch v.kind {
	case KindBytes:
		return "b" + strconv.Quote(string(v.raw))
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	default:
		return strconv.Quote(v.text)
	}
}

// GoString supports %#v.
func (v Value) GoString() string {
	return fmt.Sprintf("storage.Value{%s %s}", v.kind, v.Repr())
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}
