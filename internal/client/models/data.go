package models

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrIncorrectData = errors.New("data item must be name=value")

// DataFromPairs builds object data from "name=value" strings. Values that are
// valid JSON (numbers, booleans, objects, arrays, quoted strings) are decoded;
// anything else is kept as a plain string.
func DataFromPairs(pairs []string) (map[string]any, error) {
	data := make(map[string]any, len(pairs))
	for _, item := range pairs {
		name, value, ok := strings.Cut(item, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, ErrIncorrectData
		}
		name = strings.TrimSpace(name)

		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil && decoded != nil {
			data[name] = decoded
			continue
		}
		data[name] = value
	}
	return data, nil
}
