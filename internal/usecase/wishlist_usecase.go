package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// AddWishlistInput is the body of POST /api/wishlist.
type AddWishlistInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
}

// WishlistUsecase manages the server-side copy of a user's wishlist.
type WishlistUsecase interface {
	ListWishlist(ctx context.Context, userID uuid.UUID) ([]*entity.Product, error)

	// AddToWishlist saves the product. created is false when it was already saved.
	AddToWishlist(ctx context.Context, userID, productID uuid.UUID) (product *entity.Product, created bool, err error)

	RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) error
}
