// Package library is the SQLite catalog: shows, seasons, episodes and
// tracks, with the atomic create-if-absent operations the scanner relies on.
package library

import (
	"encoding/json"
	"fmt"
)

// encodeJSON stores collections and maps as JSON text columns.
func encodeJSON(v any, empty string) (string, error) {
	if v == nil {
		return empty, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	if string(b) == "null" {
		return empty, nil
	}
	return string(b), nil
}

func decodeJSON(s string, v any) error {
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}
