// Package encoding provides utilities for encoding and decoding data.
package encoding

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseJSON unmarshals data into a new value of type T.
func ParseJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &result, nil
}

// ToJSONIndent marshals a value to JSON indented with two spaces, the layout
// used for every document gistvault writes.
func ToJSONIndent[T any](value T) ([]byte, error) {
	return json.MarshalIndent(value, "", "  ")
}

// Reindent re-renders raw JSON with two-space indentation.
func Reindent(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
