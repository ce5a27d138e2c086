package fhirjson

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Canonical returns data re-encoded with sorted object keys, no
// insignificant whitespace and no HTML escaping. Number literals are kept
// as written.
func Canonical(data []byte) ([]byte, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return marshalNoEscape(v)
}

// Indent is Canonical with two-space indentation.
func Indent(data []byte) ([]byte, error) {
	c, err := Canonical(data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, c, "", "  "); err != nil {
		return nil, fmt.Errorf("indent: %w", err)
	}
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
