package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Mirror copies accepted uploads into an object-storage bucket. It is a
// best-effort secondary sink: the local filesystem stays the source of truth
// for downloads, and mirror failures never fail an upload.
type Mirror struct {
	client *minio.Client
	bucket string
}

// NewMirror creates the MinIO client and ensures the bucket exists.
func NewMirror(cfg *MinIOConfig) (*Mirror, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	m := &Mirror{client: mc, bucket: cfg.Bucket}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		// tolerate "already exists"
		exist, xerr := mc.BucketExists(ctx, m.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return m, nil
}

// Put stores one object under the given key.
func (m *Mirror) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}
