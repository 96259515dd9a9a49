package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// OrderRepository persists orders. Orders are append-only.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error

	// ListByUser returns a user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)
}
