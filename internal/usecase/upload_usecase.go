package usecase

import (
	"context"
	"io"
)

// UploadImageInput carries one multipart file.
type UploadImageInput struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// UploadUsecase stores product images and serves them back.
type UploadUsecase interface {
	// UploadImage stores the image and returns its public URL path.
	UploadImage(ctx context.Context, input *UploadImageInput) (string, error)

	// OpenImage returns the stored image and its content type.
	OpenImage(ctx context.Context, name string) (io.ReadCloser, string, error)
}
