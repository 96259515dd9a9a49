package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks fulfilment. Orders are created as pending and never
// mutated afterwards by this service.
type OrderStatus string

const OrderStatusPending OrderStatus = "pending"

// ShippingAddress is the delivery address snapshot stored with an order.
type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// OrderItem is one purchased product with the price charged at placement.
type OrderItem struct {
	ProductID uuid.UUID `json:"product"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

// Subtotal returns price times quantity.
func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Order is created atomically from a cart snapshot and is immutable afterwards.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     float64         `json:"totalAmount"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ItemsTotal sums the subtotals of all items.
func (o *Order) ItemsTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Subtotal()
	}

	return total
}
