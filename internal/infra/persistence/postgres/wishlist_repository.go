package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type wishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository creates a GORM-backed wishlist repository.
func NewWishlistRepository(db *gorm.DB) repository.WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.WishlistItem, error) {
	var rows []model.WishlistModel
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list wishlist")
	}

	items := make([]*entity.WishlistItem, 0, len(rows))
	for i := range rows {
		items = append(items, toWishlistEntity(&rows[i]))
	}

	return items, nil
}

func (r *wishlistRepository) Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.WishlistModel{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check wishlist item")
	}

	return count > 0, nil
}

// Add inserts the item. A concurrent insert of the same pair is not an error.
func (r *wishlistRepository) Add(ctx context.Context, item *entity.WishlistItem) error {
	if item.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate wishlist item id")
		}
		item.ID = id
	}

	row := &model.WishlistModel{
		ID:        item.ID,
		UserID:    item.UserID,
		ProductID: item.ProductID,
		CreatedAt: item.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return nil
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrProductNotFound
		}

		return errors.Wrap(err, "failed to add wishlist item")
	}

	item.CreatedAt = row.CreatedAt

	return nil
}

func (r *wishlistRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.WishlistModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to remove wishlist item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrWishlistItemNotFound
	}

	return nil
}
