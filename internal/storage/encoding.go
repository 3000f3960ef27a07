package storage

import (
	"encoding/json"
	"fmt"
)

// encodeNames serializes an import/export name list as a JSON array
// for storage in a TEXT column. A nil list encodes as JSON null so it
// round-trips as nil.
func encodeNames(names []string) (string, error) {
	data, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("failed to encode names: %w", err)
	}
	return string(data), nil
}

// decodeNames reverses encodeNames.
func decodeNames(data string) ([]string, error) {
	var names []string
	if err := json.Unmarshal([]byte(data), &names); err != nil {
		return nil, fmt.Errorf("failed to decode names: %w", err)
	}
	return names, nil
}
