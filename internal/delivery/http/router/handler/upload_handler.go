package handler

import (
	"net/http"

	"storefront/internal/delivery/http/response"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const uploadFormField = "image"

// UploadResult is the body returned by POST /api/upload.
type UploadResult struct {
	ImageURL string `json:"imageUrl"`
}

// UploadHandler stores and serves product images.
type UploadHandler struct {
	uc usecase.UploadUsecase
}

func NewUploadHandler(uc usecase.UploadUsecase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

// UploadImage handles POST /api/upload with a multipart "image" file.
func (h *UploadHandler) UploadImage(c echo.Context) error {
	header, err := c.FormFile(uploadFormField)
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("image file is required")
	}

	file, err := header.Open()
	if err != nil {
		return errors.Wrap(err, "open uploaded file")
	}
	defer file.Close()

	url, err := h.uc.UploadImage(c.Request().Context(), &usecase.UploadImageInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Body:        file,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, UploadResult{ImageURL: url}, "Image uploaded")
}

// ServeImage handles GET /uploads/:name.
func (h *UploadHandler) ServeImage(c echo.Context) error {
	rc, contentType, err := h.uc.OpenImage(c.Request().Context(), c.Param("name"))
	if err != nil {
		return errors.WithStack(err)
	}
	defer rc.Close()

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")

	return c.Stream(http.StatusOK, contentType, rc)
}
