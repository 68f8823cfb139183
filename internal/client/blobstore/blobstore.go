// Package blobstore mirrors captured images to S3-compatible object storage.
//
// Mirroring is optional and best-effort: callers log failures and carry on
// with the local copy, which stays authoritative.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	BackendNone  = ""
	BackendS3    = "s3"
	BackendMinio = "minio"
)

var ErrUnknownBackend = errors.New("unknown blob backend")

// Mirror stores and removes blobs by key.
type Mirror interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

// Config selects and configures a backend.
type Config struct {
	Backend   string
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// ImageKey is the object key of an image captured at createdAt.
func ImageKey(id string, createdAt time.Time) string {
	d := createdAt.UTC()
	return fmt.Sprintf("images/%04d/%02d/%02d/%s.jpg", d.Year(), int(d.Month()), d.Day(), id)
}

// New builds the configured mirror. BackendNone yields (nil, nil).
func New(ctx context.Context, cfg Config) (Mirror, error) {
	switch cfg.Backend {
	case BackendNone:
		return nil, nil
	case BackendS3:
		return NewS3Mirror(ctx, cfg)
	case BackendMinio:
		return NewMinioMirror(ctx, cfg)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}
