package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrWishlistItemNotFound is returned when removing a product that is not saved.
var ErrWishlistItemNotFound = errors.New("wishlist item not found")

// WishlistRepository persists per-user saved products.
type WishlistRepository interface {
	// ListByUser returns the saved items with their products preloaded.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.WishlistItem, error)

	Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error)

	Add(ctx context.Context, item *entity.WishlistItem) error

	Remove(ctx context.Context, userID, productID uuid.UUID) error
}
