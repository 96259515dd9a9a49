package model

import (
	"time"

	"github.com/google/uuid"
)

// ShippingAddressModel is embedded into orders with a shipping_ column prefix.
type ShippingAddressModel struct {
	Street  string `gorm:"type:varchar(255)"`
	City    string `gorm:"type:varchar(100)"`
	State   string `gorm:"type:varchar(100)"`
	ZipCode string `gorm:"type:varchar(20)"`
	Country string `gorm:"type:varchar(100)"`
}

// OrderModel mirrors the 'orders' table. Items live in 'order_items'.
type OrderModel struct {
	ID              uuid.UUID            `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID            `gorm:"type:uuid;not null;index"`
	Items           []OrderItemModel     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount     float64              `gorm:"type:numeric(12,2);not null"`
	ShippingAddress ShippingAddressModel `gorm:"embedded;embeddedPrefix:shipping_"`
	Status          string               `gorm:"type:varchar(16);not null"`
	CreatedAt       time.Time            `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table. Position keeps cart order.
type OrderItemModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Position  int       `gorm:"not null"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Name      string    `gorm:"type:varchar(255)"`
	Quantity  int       `gorm:"not null;check:quantity > 0"`
	Price     float64   `gorm:"type:numeric(12,2);not null"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}
