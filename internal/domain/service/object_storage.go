package service

import (
	"context"
	"io"
)

// ObjectStorage stores binary objects such as product images.
type ObjectStorage interface {
	// Upload writes the object under key.
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error

	// URL returns the public retrieval URL of key.
	URL(ctx context.Context, key string) (string, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)
}
