// Package metadata stores small key/value records: user settings and the
// local echo of the signed-in profile.
package metadata

import (
	"context"
)

// Repository is a key/value table. Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Put upserts every pair with a single statement.
	Put(ctx context.Context, values map[string][]byte) error
	// Delete removes the keys and reports how many existed.
	Delete(ctx context.Context, keys ...string) (int, error)
	// Scan returns the pairs whose key starts with prefix.
	Scan(ctx context.Context, prefix string) (map[string][]byte, error)
}
