package impl

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/lifecycle"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// totalTolerance absorbs float rounding between client and server sums.
const totalTolerance = 0.005

type orderService struct {
	txManager repository.TransactionManager
	orderRepo repository.OrderRepository
	publisher service.EventPublisher
	now       func() time.Time
	logger    *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	OrderRepo repository.OrderRepository
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewOrderService creates the order use case.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager: params.TxManager,
		orderRepo: params.OrderRepo,
		publisher: params.Publisher,
		now:       time.Now,
		logger:    params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// PlaceOrder re-prices every line from the catalog inside one transaction.
// The client total must agree with the server total to the cent.
func (srv *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, input *usecase.PlaceOrderInput) (*entity.Order, error) {
	if len(input.Items) == 0 {
		return nil, domainerrors.ErrEmptyOrder
	}

	order := &entity.Order{
		UserID: userID,
		Items:  make([]entity.OrderItem, 0, len(input.Items)),
		ShippingAddress: entity.ShippingAddress{
			Street:  input.ShippingAddress.Street,
			City:    input.ShippingAddress.City,
			State:   input.ShippingAddress.State,
			ZipCode: input.ShippingAddress.ZipCode,
			Country: input.ShippingAddress.Country,
		},
		Status:    entity.OrderStatusPending,
		CreatedAt: srv.now(),
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		ids := make([]uuid.UUID, 0, len(input.Items))
		for _, item := range input.Items {
			ids = append(ids, item.ProductID)
		}

		products, err := repoFactory.ProductRepo().FindByIDs(ctx, ids)
		if err != nil {
			return errors.Wrap(err, "failed to load order products")
		}

		for _, item := range input.Items {
			product, ok := products[item.ProductID]
			if !ok {
				return domainerrors.ErrProductNotFound.WithDetails(item.ProductID.String())
			}
			if !product.InStock {
				return domainerrors.ErrProductOutOfStock.WithDetails(product.Name)
			}

			order.Items = append(order.Items, entity.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  item.Quantity,
				Price:     product.Price,
			})
		}

		order.TotalAmount = roundCents(order.ItemsTotal())
		if math.Abs(order.TotalAmount-input.TotalAmount) > totalTolerance {
			return domainerrors.ErrOrderTotalMismatch.WithDetails(
				"expected " + strconv.FormatFloat(order.TotalAmount, 'f', 2, 64))
		}

		return repoFactory.OrderRepo().Create(ctx, order)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to place order", slog.String("user_id", userID.String()), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Order placed",
		slog.String("order_id", order.ID.String()),
		slog.Int("item_count", len(order.Items)),
		slog.Float64("total_amount", order.TotalAmount),
	)

	srv.publishPlaced(ctx, order)

	return order, nil
}

// publishPlaced is best effort; the order is already committed.
func (srv *orderService) publishPlaced(ctx context.Context, order *entity.Order) {
	if srv.publisher == nil {
		return
	}

	itemCount := 0
	for _, item := range order.Items {
		itemCount += item.Quantity
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lifecycle.DefaultTimeout)
	defer cancel()

	event := &service.OrderPlacedEvent{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		OrderID:     order.ID.String(),
		UserID:      order.UserID.String(),
		ItemCount:   itemCount,
		TotalAmount: order.TotalAmount,
		PlacedAt:    order.CreatedAt,
	}
	if err := srv.publisher.PublishOrderPlaced(pubCtx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish order event",
			slog.String("order_id", event.OrderID),
			slog.Any("error", err),
		)
	}
}

func (srv *orderService) ListMyOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
