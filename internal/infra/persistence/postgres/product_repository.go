package postgres

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a GORM-backed product repository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) List(ctx context.Context) ([]*entity.Product, error) {
	var rows []model.ProductModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	products := make([]*entity.Product, 0, len(rows))
	for i := range rows {
		products = append(products, toProductEntity(&rows[i]))
	}

	return products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var row model.ProductModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return toProductEntity(&row), nil
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error) {
	found := make(map[uuid.UUID]*entity.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var rows []model.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find products")
	}

	for i := range rows {
		found[rows[i].ID] = toProductEntity(&rows[i])
	}

	return found, nil
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate product id")
		}
		product.ID = id
	}

	row := fromProductEntity(product)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isCheckConstraintViolation(err) {
			return errors.Wrap(err, "product violates table constraints")
		}

		return errors.Wrap(err, "failed to create product")
	}

	product.CreatedAt = row.CreatedAt
	product.UpdatedAt = row.UpdatedAt

	return nil
}

// Update overwrites every mutable column, zero values included.
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	row := fromProductEntity(product)
	row.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", product.ID).
		Select("name", "price", "image", "description", "category",
			"in_stock", "sustainability_score", "community_impact", "updated_at").
		Updates(row)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	product.UpdatedAt = row.UpdatedAt

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}
