// Package entity contains the core business objects of the storefront,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category is the fixed product classification.
type Category string

const (
	CategoryKitchenware Category = "Kitchenware"
	CategoryTableware   Category = "Tableware"
	CategoryFood        Category = "Food"
	CategoryFurniture   Category = "Furniture"
	CategoryDecorative  Category = "Decorative"
	CategoryOther       Category = "Other"
)

// DefaultSustainabilityScore is applied when a product is created without a score.
const DefaultSustainabilityScore = 95

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryKitchenware,
		CategoryTableware,
		CategoryFood,
		CategoryFurniture,
		CategoryDecorative,
		CategoryOther,
	}
}

// IsValid checks if the Category is one of the enumerated values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryKitchenware, CategoryTableware, CategoryFood,
		CategoryFurniture, CategoryDecorative, CategoryOther:
		return true
	default:
		return false
	}
}

// Product is an item in the catalog. The server owns it; clients hold copies.
type Product struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Price               float64   `json:"price"`
	Image               string    `json:"image"`
	Description         string    `json:"description"`
	Category            Category  `json:"category"`
	InStock             bool      `json:"inStock"`
	SustainabilityScore int       `json:"sustainabilityScore"` // 0..100
	CommunityImpact     string    `json:"communityImpact"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}
