// Package images stores product images in an S3-compatible object store.
package images

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store uploads and removes product images in one bucket.
type Store struct {
	client  *minio.Client
	bucket  string
	urlHost string
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// URLHost overrides the public URL host when the store sits behind a
	// CDN or reverse proxy. Empty means the endpoint itself.
	URLHost string
}

func New(cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}
	urlHost := cfg.URLHost
	if urlHost == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		urlHost = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}
	return &Store{client: client, bucket: cfg.Bucket, urlHost: urlHost}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// Upload stores the image and returns its object key and public URL.
func (s *Store) Upload(ctx context.Context, reader io.Reader, size int64, filename, contentType string) (string, string, error) {
	key := uuid.NewString() + path.Ext(filename)

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("upload image: %w", err)
	}
	return key, s.objectURL(key), nil
}

// Remove deletes the object with the given key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

func (s *Store) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.urlHost, s.bucket, url.PathEscape(key))
}
