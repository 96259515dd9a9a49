// Package localstore persists client state as JSON documents in a gocloud
// bucket. A file:// bucket survives restarts; mem:// is for tests.
package localstore

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
)

const jsonContentType = "application/json"

// Store is safe for concurrent use; callers serialize read-modify-write
// sequences themselves.
type Store struct {
	bucket *blob.Bucket
	logger *slog.Logger
}

// Open opens the bucket at url, e.g. "file:///home/me/.shopper?create_dir=true".
func Open(ctx context.Context, url string, logger *slog.Logger) (*Store, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "open state bucket %q", url)
	}

	return New(bucket, logger), nil
}

// New wraps an already opened bucket. Close closes it.
func New(bucket *blob.Bucket, logger *slog.Logger) *Store {
	return &Store{bucket: bucket, logger: logger}
}

// Get decodes key into a T. A missing or undecodable entry yields def.
func Get[T any](ctx context.Context, s *Store, key string, def T) T {
	raw, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) != gcerrors.NotFound {
			s.logger.WarnContext(ctx, "Failed to read local state",
				slog.String("key", key), slog.Any("error", err))
		}

		return def
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		s.logger.WarnContext(ctx, "Discarding corrupt local state",
			slog.String("key", key), slog.Any("error", err))

		return def
	}

	return value
}

// Set stores value as JSON. The write is committed when Set returns.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}

	return s.write(ctx, key, jsonContentType, raw)
}

// GetString returns the raw text stored under key, or "" when absent.
func (s *Store) GetString(ctx context.Context, key string) string {
	raw, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) != gcerrors.NotFound {
			s.logger.WarnContext(ctx, "Failed to read local state",
				slog.String("key", key), slog.Any("error", err))
		}

		return ""
	}

	return string(raw)
}

// SetString stores value verbatim.
func (s *Store) SetString(ctx context.Context, key, value string) error {
	return s.write(ctx, key, "text/plain", []byte(value))
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return errors.Wrapf(err, "delete %s", key)
	}

	return nil
}

func (s *Store) Close() error {
	return errors.WithStack(s.bucket.Close())
}

func (s *Store) write(ctx context.Context, key, contentType string, raw []byte) error {
	err := s.bucket.WriteAll(ctx, key, raw, &blob.WriterOptions{ContentType: contentType})

	return errors.Wrapf(err, "write %s", key)
}
