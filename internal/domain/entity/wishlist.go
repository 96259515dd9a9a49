package entity

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem links a user to a saved product. A (UserID, ProductID) pair is unique.
type WishlistItem struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Product   *Product
	CreatedAt time.Time
}
