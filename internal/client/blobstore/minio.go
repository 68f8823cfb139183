package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minioAPI is the subset of *minio.Client used by MinioMirror.
type minioAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
}

// MinioMirror writes blobs to a MinIO (or any S3-compatible) server.
type MinioMirror struct {
	api    minioAPI
	bucket string
}

// NewMinioMirror connects to cfg.Endpoint (host:port) and creates the bucket
// when it does not exist yet.
func NewMinioMirror(ctx context.Context, cfg Config) (*MinioMirror, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio mirror: endpoint and bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio mirror: %w", err)
	}
	return newMinioMirror(ctx, client, cfg.Bucket, cfg.Region)
}

func newMinioMirror(ctx context.Context, api minioAPI, bucket, region string) (*MinioMirror, error) {
	exists, err := api.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio mirror: check bucket: %w", err)
	}
	if !exists {
		if err := api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, fmt.Errorf("minio mirror: create bucket: %w", err)
		}
	}
	return &MinioMirror{api: api, bucket: bucket}, nil
}

func (m *MinioMirror) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := m.api.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("minio put %s: %w", key, err)
	}
	return nil
}

func (m *MinioMirror) Delete(ctx context.Context, key string) error {
	if err := m.api.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio delete %s: %w", key, err)
	}
	return nil
}
