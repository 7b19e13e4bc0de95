package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/neurograph/internal/ir"
)

// canonicalText converts a JSON payload to canonical JSON TEXT for storage.
// An empty payload is stored as "{}".
func canonicalText(payload json.RawMessage) (string, error) {
	if len(payload) == 0 {
		return "{}", nil
	}
	data, err := ir.MarshalCanonical(payload)
	if err != nil {
		return "", fmt.Errorf("canonicalize payload: %w", err)
	}
	return string(data), nil
}

// MarshalPayload converts a typed payload to canonical JSON.
func MarshalPayload(v any) (json.RawMessage, error) {
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return data, nil
}

// UnmarshalPayload decodes a stored payload into v, rejecting unknown
// fields so a schema drift surfaces instead of replaying silently.
func UnmarshalPayload(data json.RawMessage, v any) error {
	if err := decodeStrict(data, v); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	return nil
}
