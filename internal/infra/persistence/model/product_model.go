package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductModel mirrors the 'products' table.
type ProductModel struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                string    `gorm:"type:varchar(255);not null"`
	Price               float64   `gorm:"type:numeric(12,2);not null;check:price >= 0"`
	Image               string    `gorm:"type:text;not null"`
	Description         string    `gorm:"type:text;not null"`
	Category            string    `gorm:"type:varchar(32);not null;index"`
	InStock             bool      `gorm:"not null;default:true"`
	SustainabilityScore int       `gorm:"not null;default:95;check:sustainability_score BETWEEN 0 AND 100"`
	CommunityImpact     string    `gorm:"type:text;not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
