// Package storage keeps uploaded product images in a gocloud bucket.
package storage

import (
	"context"
	"io"
	"log/slog"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
	"gocloud.dev/gcerrors"
)

type blobImageStorage struct {
	bucket *blob.Bucket
}

// Params holds dependencies for ImageStorage, injected by Fx
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured bucket and closes it on shutdown.
func New(params Params) (service.ImageStorage, error) {
	storage, err := Open(params.Ctx, params.Config.Storage.BucketURL)
	if err != nil {
		return nil, err
	}

	params.Logger.Info("Image storage opened", slog.String("bucket_url", params.Config.Storage.BucketURL))

	params.Lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return storage.Close()
		},
	})

	return storage, nil
}

// Open returns an ImageStorage backed by the bucket at bucketURL.
func Open(ctx context.Context, bucketURL string) (service.ImageStorage, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", bucketURL)
	}

	return &blobImageStorage{bucket: bucket}, nil
}

func (s *blobImageStorage) Save(ctx context.Context, key, contentType string, r io.Reader) error {
	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrapf(err, "failed to open writer for %s", key)
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()

		return errors.Wrapf(err, "failed to write %s", key)
	}

	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "failed to commit %s", key)
	}

	return nil
}

func (s *blobImageStorage) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, "", domainerrors.ErrImageNotFound
		}

		return nil, "", errors.Wrapf(err, "failed to open %s", key)
	}

	return r, r.ContentType(), nil
}

func (s *blobImageStorage) Close() error {
	return errors.WithStack(s.bucket.Close())
}
