package service

import (
	"context"
	"io"
)

// ImageStorage keeps uploaded product images.
type ImageStorage interface {
	// Save streams r under key.
	Save(ctx context.Context, key, contentType string, r io.Reader) error

	// Open returns a reader for key and its stored content type.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)

	Close() error
}
