// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProductNotFound is returned when no product matches the lookup.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository persists catalog products.
type ProductRepository interface {
	// List returns every product, oldest first.
	List(ctx context.Context) ([]*entity.Product, error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindByIDs returns the products that exist among ids, keyed by ID.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error)

	Create(ctx context.Context, product *entity.Product) error

	Update(ctx context.Context, product *entity.Product) error

	Delete(ctx context.Context, id uuid.UUID) error
}
