package handler

import (
	"net/http"

	"storefront/internal/delivery/http/response"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProductHandler serves the catalog.
type ProductHandler struct {
	uc usecase.ProductUsecase
}

func NewProductHandler(uc usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// ListProducts handles GET /api/products.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.uc.ListProducts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, products, "")
}

// GetProduct handles GET /api/products/:id.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "")
}

// CreateProduct handles POST /api/products.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	input := new(usecase.ProductInput)
	if err := bindAndValidate(c, input); err != nil {
		return err
	}

	product, err := h.uc.CreateProduct(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "Product created")
}

// UpdateProduct handles PUT /api/products/:id.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	input := new(usecase.ProductInput)
	if err := bindAndValidate(c, input); err != nil {
		return err
	}

	product, err := h.uc.UpdateProduct(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product updated")
}

// DeleteProduct handles DELETE /api/products/:id.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Product deleted")
}

// GetProductQRCode handles GET /api/products/:id/qrcode.
func (h *ProductHandler) GetProductQRCode(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	png, err := h.uc.GenerateProductQR(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// ResolveProductQR handles GET /api/products/resolve?code=...
func (h *ProductHandler) ResolveProductQR(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return domainerrors.ErrValidationFailed.WithDetails("code is required")
	}

	product, err := h.uc.ResolveProductQR(c.Request().Context(), code)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "")
}
