// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ProductInput is the payload for creating or replacing a product.
// Nil InStock and SustainabilityScore take their defaults on create and
// keep the stored value on update.
type ProductInput struct {
	Name                string          `json:"name" validate:"required,max=255"`
	Price               float64         `json:"price" validate:"gte=0"`
	Image               string          `json:"image" validate:"required"`
	Description         string          `json:"description" validate:"required"`
	Category            entity.Category `json:"category" validate:"required,oneof=Kitchenware Tableware Food Furniture Decorative Other"`
	InStock             *bool           `json:"inStock,omitempty"`
	SustainabilityScore *int            `json:"sustainabilityScore,omitempty" validate:"omitempty,min=0,max=100"`
	CommunityImpact     string          `json:"communityImpact" validate:"required"`
}

// ProductUsecase manages the catalog. Mutations are admin-only; the
// delivery layer enforces that.
type ProductUsecase interface {
	ListProducts(ctx context.Context) ([]*entity.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input *ProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// GenerateProductQR returns a PNG share code for an existing product.
	GenerateProductQR(ctx context.Context, id uuid.UUID) ([]byte, error)

	// ResolveProductQR looks up the product behind scanned share code text,
	// either a product link or a bare ID.
	ResolveProductQR(ctx context.Context, code string) (*entity.Product, error)
}
