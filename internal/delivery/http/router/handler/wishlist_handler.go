package handler

import (
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// WishlistHandler manages the caller's server-side wishlist.
type WishlistHandler struct {
	uc usecase.WishlistUsecase
}

func NewWishlistHandler(uc usecase.WishlistUsecase) *WishlistHandler {
	return &WishlistHandler{uc: uc}
}

// ListWishlist handles GET /api/wishlist.
func (h *WishlistHandler) ListWishlist(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	products, err := h.uc.ListWishlist(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, products, "")
}

// AddToWishlist handles POST /api/wishlist. It answers 201 for a new
// entry and 200 when the product was already saved.
func (h *WishlistHandler) AddToWishlist(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	input := new(usecase.AddWishlistInput)
	if err := bindAndValidate(c, input); err != nil {
		return err
	}

	product, created, err := h.uc.AddToWishlist(c.Request().Context(), userID, input.ProductID)
	if err != nil {
		return errors.WithStack(err)
	}

	if !created {
		return response.Success(c, http.StatusOK, product, "Product already in wishlist")
	}

	return response.Success(c, http.StatusCreated, product, "Product added to wishlist")
}

// RemoveFromWishlist handles DELETE /api/wishlist/:productId.
func (h *WishlistHandler) RemoveFromWishlist(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	productID, err := paramUUID(c, "productId")
	if err != nil {
		return err
	}

	if err := h.uc.RemoveFromWishlist(c.Request().Context(), userID, productID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Product removed from wishlist")
}
