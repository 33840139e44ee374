package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"arena/internal/config"
)

// ErrInvalidKey is returned when an object key escapes the store root
var ErrInvalidKey = errors.New("invalid object key")

// Store persists uploaded files such as verification screenshots
type Store interface {
	// Save writes r under key and returns the stored location
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// New returns an S3 store when a bucket is configured, a local store otherwise
func New(ctx context.Context, cfg config.StorageConfig, uploadDir string) (Store, error) {
	if cfg.Bucket != "" {
		return NewS3Store(ctx, &S3Options{
			URL:       cfg.Endpoint,
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
	}
	return NewLocalStore(uploadDir)
}

func cleanKey(key string) (string, error) {
	key = path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))
	key = strings.TrimPrefix(key, "/")
	if key == "" || key == "." {
		return "", ErrInvalidKey
	}
	return key, nil
}
