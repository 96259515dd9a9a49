package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// OrderItemInput is one cart line as submitted by the client.
type OrderItemInput struct {
	ProductID uuid.UUID `json:"product" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
	Price     float64   `json:"price" validate:"gte=0"`
}

// ShippingAddressInput is the delivery address for an order.
type ShippingAddressInput struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// PlaceOrderInput is the body of POST /api/orders.
type PlaceOrderInput struct {
	Items           []OrderItemInput     `json:"items" validate:"required,min=1,dive"`
	TotalAmount     float64              `json:"totalAmount" validate:"gte=0"`
	ShippingAddress ShippingAddressInput `json:"shippingAddress"`
}

// OrderUsecase places and lists orders for the authenticated user.
type OrderUsecase interface {
	// PlaceOrder prices the items from the catalog and stores a pending order.
	PlaceOrder(ctx context.Context, userID uuid.UUID, input *PlaceOrderInput) (*entity.Order, error)

	// ListMyOrders returns the user's orders, newest first.
	ListMyOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)
}
