package storage

import (
	"context"
	"io"
)

// ObjectStorage abstracts where pipeline artifacts (match reports) end up:
// a local directory in development, an S3-compatible bucket in production.
type ObjectStorage interface {
	// Upload stores an object under key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download retrieves an object by key.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// GetURL returns the location of an object for display purposes.
	GetURL(key string) string

	// Delete removes an object.
	Delete(ctx context.Context, key string) error

	// Exists checks whether an object is present.
	Exists(ctx context.Context, key string) (bool, error)

	// EnsureBucket prepares the backing location (bucket or directory).
	EnsureBucket(ctx context.Context) error
}
