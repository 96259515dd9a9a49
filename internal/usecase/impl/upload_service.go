package impl

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// sniffLen is how much of the body http.DetectContentType looks at.
const sniffLen = 512

// imageTypes maps accepted extensions to the content type they are stored with.
//
//nolint:gochecknoglobals
var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type uploadService struct {
	storage      service.ImageStorage
	publicPrefix string
	logger       *slog.Logger
}

// UploadServiceParams holds dependencies for UploadService, injected by Fx.
type UploadServiceParams struct {
	fx.In

	Storage service.ImageStorage
	Config  *config.Config
	Logger  *slog.Logger
}

// NewUploadService creates the image upload use case.
func NewUploadService(params UploadServiceParams) usecase.UploadUsecase {
	prefix := "/uploads/"
	if params.Config != nil && params.Config.Storage != nil && params.Config.Storage.PublicPrefix != "" {
		prefix = params.Config.Storage.PublicPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return &uploadService{
		storage:      params.Storage,
		publicPrefix: prefix,
		logger:       params.Logger,
	}
}

func (srv *uploadService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// UploadImage stores the file under a fresh name, keeping only its extension.
func (srv *uploadService) UploadImage(ctx context.Context, input *usecase.UploadImageInput) (string, error) {
	ext := strings.ToLower(path.Ext(input.Filename))
	contentType, ok := imageTypes[ext]
	if !ok {
		return "", domainerrors.ErrInvalidImage.WithDetails("unsupported file extension " + ext)
	}
	if input.ContentType != "" && !strings.HasPrefix(input.ContentType, "image/") {
		return "", domainerrors.ErrInvalidImage.WithDetails("unsupported content type " + input.ContentType)
	}

	// The bytes must match the extension; the part header is client input.
	body := bufio.NewReaderSize(input.Body, sniffLen)
	head, err := body.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "failed to read image")
	}
	if sniffed := http.DetectContentType(head); sniffed != contentType {
		return "", domainerrors.ErrInvalidImage.WithDetails(ext + " file contains " + sniffed)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", errors.Wrap(err, "failed to generate image name")
	}
	key := id.String() + ext

	if err := srv.storage.Save(ctx, key, contentType, body); err != nil {
		srv.log(ctx).Error("Failed to store image", slog.String("key", key), slog.Any("error", err))

		return "", errors.Wrap(err, "failed to store image")
	}

	srv.log(ctx).Info("Image uploaded", slog.String("key", key))

	return srv.publicPrefix + key, nil
}

func (srv *uploadService) OpenImage(ctx context.Context, name string) (io.ReadCloser, string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return nil, "", domainerrors.ErrImageNotFound
	}

	return srv.storage.Open(ctx, name)
}
