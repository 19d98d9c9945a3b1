package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"

	cfg "github.com/programpal/pathfinder/internal/config"
)

var (
	// ErrExists is returned by Save when an object already lives at the path.
	ErrExists = errors.New("object already exists")
	// ErrNotFound is returned by Open when no object lives at the path.
	ErrNotFound = errors.New("object not found")
)

// Storage defines the interface for blob storage operations
type Storage interface {
	// Save stores r at path. It never overwrites: an occupied path yields ErrExists.
	Save(ctx context.Context, path string, r io.Reader) error

	// Open streams the object at path. The caller closes the reader.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at path
	Delete(ctx context.Context, path string) error
}

// New builds the backend selected by STORAGE_DRIVER.
func New(ctx context.Context, c *cfg.Config) (Storage, error) {
	if c.UseS3() {
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(ctx, S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	}

	slog.Info("initializing local storage", "dir", c.UploadDir)
	return NewLocalStorage(c.UploadDir)
}
