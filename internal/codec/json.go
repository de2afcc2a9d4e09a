// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// json.go - indented JSON export, for transcripts read by people or piped
// into jq.

package codec

import (
	"bytes"
	"encoding/json"
)

// JSON encodes with two-space indentation and a trailing newline. HTML
// characters are not escaped so call logs such as "<error: ...>" stay
// readable.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (JSON) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (JSON) Name() string { return "json" }
