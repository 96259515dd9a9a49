package service

import (
	"context"
	"time"
)

// OrderPlacedEvent announces a newly created order to downstream consumers
// such as fulfilment or email.
type OrderPlacedEvent struct {
	RequestID   string    `json:"request_id,omitempty"`
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	ItemCount   int       `json:"item_count"`
	TotalAmount float64   `json:"total_amount"`
	PlacedAt    time.Time `json:"placed_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *OrderPlacedEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
