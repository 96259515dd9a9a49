package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a GORM-backed order repository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order and its items. Callers wanting atomicity with
// other writes run it through the transaction manager.
func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate order id")
		}
		order.ID = id
	}

	row := &model.OrderModel{
		ID:          order.ID,
		UserID:      order.UserID,
		Items:       make([]model.OrderItemModel, 0, len(order.Items)),
		TotalAmount: order.TotalAmount,
		ShippingAddress: model.ShippingAddressModel{
			Street:  order.ShippingAddress.Street,
			City:    order.ShippingAddress.City,
			State:   order.ShippingAddress.State,
			ZipCode: order.ShippingAddress.ZipCode,
			Country: order.ShippingAddress.Country,
		},
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}

	for i, item := range order.Items {
		itemID, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate order item id")
		}
		row.Items = append(row.Items, model.OrderItemModel{
			ID:        itemID,
			OrderID:   order.ID,
			Position:  i,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isForeignKeyConstraintViolation(err) || isCheckConstraintViolation(err) {
			return errors.Wrap(err, "order violates table constraints")
		}

		return errors.Wrap(err, "failed to create order")
	}

	order.CreatedAt = row.CreatedAt

	return nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var rows []model.OrderModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, toOrderEntity(&rows[i]))
	}

	return orders, nil
}
