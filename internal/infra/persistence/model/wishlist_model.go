package model

import (
	"time"

	"github.com/google/uuid"
)

// WishlistModel mirrors the 'wishlist_items' table.
type WishlistModel struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_product"`
	ProductID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_product"`
	Product   *ProductModel `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (WishlistModel) TableName() string {
	return "wishlist_items"
}
