package impl

import (
	"context"
	"testing"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderServiceFixtures struct {
	service   *orderService
	txManager *mockRepo.MockTransactionManager
	orderRepo *mockRepo.MockOrderRepository
	publisher *mockSvc.MockEventPublisher
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func createTestOrderService(t *testing.T) orderServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	orderRepo := mockRepo.NewMockOrderRepository(t)
	publisher := mockSvc.NewMockEventPublisher(t)

	srv := NewOrderService(OrderServiceParams{
		TxManager: txManager,
		OrderRepo: orderRepo,
		Publisher: publisher,
		Logger:    newDiscardLogger(),
	}).(*orderService)
	srv.now = func() time.Time { return fixedNow }

	return orderServiceFixtures{
		service:   srv,
		txManager: txManager,
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

func catalogFixture() (bowl, cup *entity.Product) {
	bowl = &entity.Product{ID: uuid.New(), Name: "Bowl", Price: 100, InStock: true}
	cup = &entity.Product{ID: uuid.New(), Name: "Cup", Price: 50, InStock: true}

	return bowl, cup
}

func orderInput(total float64, items ...usecase.OrderItemInput) *usecase.PlaceOrderInput {
	return &usecase.PlaceOrderInput{
		Items:       items,
		TotalAmount: total,
		ShippingAddress: usecase.ShippingAddressInput{
			Street: "1 Main St", City: "Pune", State: "MH", ZipCode: "411001", Country: "India",
		},
	}
}

// expectCatalog wires a transaction whose product repo returns products.
func expectCatalog(t *testing.T, fx orderServiceFixtures, products ...*entity.Product) (*mockRepo.MockRepositoryFactory, *mockRepo.MockProductRepository) {
	factory := expectTx(t, fx.txManager)
	productRepo := mockRepo.NewMockProductRepository(t)
	factory.EXPECT().ProductRepo().Return(productRepo)

	found := make(map[uuid.UUID]*entity.Product, len(products))
	for _, p := range products {
		found[p.ID] = p
	}
	productRepo.EXPECT().FindByIDs(mock.Anything, mock.AnythingOfType("[]uuid.UUID")).Return(found, nil)

	return factory, productRepo
}

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	fx := createTestOrderService(t)
	bowl, cup := catalogFixture()
	userID := uuid.New()
	ctx := deliverycontext.WithRequestID(context.Background(), "req-42")

	factory, _ := expectCatalog(t, fx, bowl, cup)
	txOrderRepo := mockRepo.NewMockOrderRepository(t)
	factory.EXPECT().OrderRepo().Return(txOrderRepo)
	txOrderRepo.EXPECT().
		Create(mock.Anything, mock.AnythingOfType("*entity.Order")).
		Run(func(_ context.Context, order *entity.Order) {
			order.ID = uuid.New()
		}).
		Return(nil)

	var published *service.OrderPlacedEvent
	fx.publisher.EXPECT().
		PublishOrderPlaced(mock.Anything, mock.AnythingOfType("*service.OrderPlacedEvent")).
		Run(func(_ context.Context, event *service.OrderPlacedEvent) {
			published = event
		}).
		Return(nil)

	order, err := fx.service.PlaceOrder(ctx, userID, orderInput(250,
		usecase.OrderItemInput{ProductID: bowl.ID, Quantity: 2, Price: 100},
		usecase.OrderItemInput{ProductID: cup.ID, Quantity: 1, Price: 50},
	))

	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, 250.0, order.TotalAmount)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, fixedNow, order.CreatedAt)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Bowl", order.Items[0].Name)
	assert.Equal(t, "India", order.ShippingAddress.Country)

	require.NotNil(t, published)
	assert.Equal(t, "req-42", published.RequestID)
	assert.Equal(t, order.ID.String(), published.OrderID)
	assert.Equal(t, 3, published.ItemCount)
}

func TestOrderService_PlaceOrder_UsesCatalogPrice(t *testing.T) {
	fx := createTestOrderService(t)
	bowl, _ := catalogFixture()

	factory, _ := expectCatalog(t, fx, bowl)
	txOrderRepo := mockRepo.NewMockOrderRepository(t)
	factory.EXPECT().OrderRepo().Return(txOrderRepo)
	txOrderRepo.EXPECT().Create(mock.Anything, mock.AnythingOfType("*entity.Order")).Return(nil)
	fx.publisher.EXPECT().PublishOrderPlaced(mock.Anything, mock.Anything).Return(nil)

	order, err := fx.service.PlaceOrder(context.Background(), uuid.New(), orderInput(100,
		usecase.OrderItemInput{ProductID: bowl.ID, Quantity: 1, Price: 1},
	))

	require.NoError(t, err)
	assert.Equal(t, 100.0, order.Items[0].Price)
}

func TestOrderService_PlaceOrder_TotalMismatch(t *testing.T) {
	fx := createTestOrderService(t)
	bowl, _ := catalogFixture()

	expectCatalog(t, fx, bowl)

	_, err := fx.service.PlaceOrder(context.Background(), uuid.New(), orderInput(90,
		usecase.OrderItemInput{ProductID: bowl.ID, Quantity: 1, Price: 90},
	))

	assert.ErrorIs(t, err, domainerrors.ErrOrderTotalMismatch)
}

func TestOrderService_PlaceOrder_UnknownProduct(t *testing.T) {
	fx := createTestOrderService(t)

	expectCatalog(t, fx)

	_, err := fx.service.PlaceOrder(context.Background(), uuid.New(), orderInput(10,
		usecase.OrderItemInput{ProductID: uuid.New(), Quantity: 1, Price: 10},
	))

	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestOrderService_PlaceOrder_OutOfStock(t *testing.T) {
	fx := createTestOrderService(t)
	bowl, _ := catalogFixture()
	bowl.InStock = false

	expectCatalog(t, fx, bowl)

	_, err := fx.service.PlaceOrder(context.Background(), uuid.New(), orderInput(100,
		usecase.OrderItemInput{ProductID: bowl.ID, Quantity: 1, Price: 100},
	))

	assert.ErrorIs(t, err, domainerrors.ErrProductOutOfStock)
}

func TestOrderService_PlaceOrder_EmptyOrder(t *testing.T) {
	fx := createTestOrderService(t)

	_, err := fx.service.PlaceOrder(context.Background(), uuid.New(), orderInput(0))

	assert.ErrorIs(t, err, domainerrors.ErrEmptyOrder)
}

func TestOrderService_PlaceOrder_PublishFailureIsNotFatal(t *testing.T) {
	fx := createTestOrderService(t)
	bowl, _ := catalogFixture()

	factory, _ := expectCatalog(t, fx, bowl)
	txOrderRepo := mockRepo.NewMockOrderRepository(t)
	factory.EXPECT().OrderRepo().Return(txOrderRepo)
	txOrderRepo.EXPECT().Create(mock.Anything, mock.AnythingOfType("*entity.Order")).Return(nil)
	fx.publisher.EXPECT().PublishOrderPlaced(mock.Anything, mock.Anything).Return(errors.New("broker down"))

	order, err := fx.service.PlaceOrder(context.Background(), uuid.New(), orderInput(100,
		usecase.OrderItemInput{ProductID: bowl.ID, Quantity: 1, Price: 100},
	))

	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestOrderService_ListMyOrders(t *testing.T) {
	fx := createTestOrderService(t)
	userID := uuid.New()
	orders := []*entity.Order{{ID: uuid.New()}, {ID: uuid.New()}}

	fx.orderRepo.EXPECT().ListByUser(mock.Anything, userID).Return(orders, nil)

	got, err := fx.service.ListMyOrders(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, orders, got)
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 0.3, roundCents(0.1+0.2))
	assert.Equal(t, 19.99, roundCents(19.989999))
}
