// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// args.go - textual serialization of call inputs and results for the call
// logs, and ParseArgs, which reads an inputs entry back into Values.

package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// Args is a positional argument list. An operation whose input is Args is
// logged as a tuple of its elements rather than a one-element tuple.
type Args []any

// FormatArgs renders a call input as a tuple: "()" for an empty Args,
// "(x,)" for one argument and "(x, y)" for several.
func FormatArgs(in any) string {
	var items []any
	if a, ok := in.(Args); ok {
		items = a
	} else {
		items = []any{in}
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = repr(it)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// FormatResult renders a call result in plain form: strings unquoted,
// Values and fmt.Stringers via String, everything else via fmt.Sprint.
func FormatResult(out any) string {
	switch v := out.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// errorMarker is appended to the outputs log in place of a result when the
// wrapped operation fails.
func errorMarker(err error) string {
	return "<error: " + err.Error() + ">"
}

func repr(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case Value:
		return x.Repr()
	case string:
		return strconv.Quote(x)
	case []byte:
		return "b" + strconv.Quote(string(x))
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case fmt.Stringer:
		return strconv.Quote(x.String())
	default:
		return fmt.Sprint(x)
	}
}

// ParseArgs decodes an inputs log entry produced by FormatArgs for
// arguments that are Values (or strings, byte slices, integers and floats)
// back into Values.
func ParseArgs(entry string) ([]Value, error) {
	s := strings.TrimSpace(entry)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, fmt.Errorf("%w: %q is not a tuple", ErrMalformedArgs, entry)
	}
	rest := s[1 : len(s)-1]
	vals := []Value{}
	for {
		rest = strings.TrimLeft(rest, " ")
		if rest == "" {
			return vals, nil
		}
		v, n, err := parseItem(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrMalformedArgs, entry, err)
		}
		vals = append(vals, v)
		rest = strings.TrimLeft(rest[n:], " ")
		if rest == "" {
			return vals, nil
		}
		if rest[0] != ',' {
			return nil, fmt.Errorf("%w: %q: expected ',' at %q", ErrMalformedArgs, entry, rest)
		}
		rest = rest[1:]
	}
}

// parseItem reads one value from the front of s and returns it with the
// number of bytes consumed.
func parseItem(s string) (Value, int, error) {
	switch {
	case s[0] == '"':
		q, err := strconv.QuotedPrefix(s)
		if err != nil {
			return Value{}, 0, err
		}
		text, err := strconv.Unquote(q)
		if err != nil {
			return Value{}, 0, err
		}
		return Text(text), len(q), nil
	case strings.HasPrefix(s, `b"`):
		q, err := strconv.QuotedPrefix(s[1:])
		if err != nil {
			return Value{}, 0, err
		}
		text, err := strconv.Unquote(q)
		if err != nil {
			return Value{}, 0, err
		}
		return Bytes([]byte(text)), len(q) + 1, nil
	}
	end := strings.IndexByte(s, ',')
	if end < 0 {
		end = len(s)
	}
	tok := strings.TrimRight(s[:end], " ")
	if strings.ContainsAny(tok, ".eEIN") {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return Value{}, 0, err
		}
		return Float(f), end, nil
	}
	i, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return Value{}, 0, err
	}
	return Integer(i), end, nil
}
