// Package models defines client-side data models shared by the REST client,
// the local store and the services.
package models

import (
	"encoding/json"
	"time"
)

// RemoteObject is a generic object as exposed by the remote endpoint.
// ID is assigned by the server on create.
type RemoteObject struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Data map[string]any `json:"data"`
}

// CachedObject is the local mirror of a RemoteObject.
type CachedObject struct {
	RemoteObject

	// CreatedAt is set when the record is first inserted locally.
	CreatedAt time.Time
	// UpdatedAt is set whenever name or data is overwritten; nil until then.
	UpdatedAt *time.Time
}

// EncodeData serializes object data for storage. A nil map is stored as {}.
func EncodeData(data map[string]any) ([]byte, error) {
	if data == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(data)
}

// DecodeData is the inverse of EncodeData. Empty input yields an empty map.
func DecodeData(b []byte) (map[string]any, error) {
	data := map[string]any{}
	if len(b) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}
