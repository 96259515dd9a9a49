package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type wishlistServiceFixtures struct {
	service      usecase.WishlistUsecase
	wishlistRepo *mockRepo.MockWishlistRepository
	productRepo  *mockRepo.MockProductRepository
}

func createTestWishlistService(t *testing.T) wishlistServiceFixtures {
	wishlistRepo := mockRepo.NewMockWishlistRepository(t)
	productRepo := mockRepo.NewMockProductRepository(t)

	return wishlistServiceFixtures{
		service: NewWishlistService(WishlistServiceParams{
			WishlistRepo: wishlistRepo,
			ProductRepo:  productRepo,
			Logger:       newDiscardLogger(),
		}),
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

func TestWishlistService_ListWishlist(t *testing.T) {
	fx := createTestWishlistService(t)
	userID := uuid.New()
	product := &entity.Product{ID: uuid.New(), Name: "Bowl"}

	fx.wishlistRepo.EXPECT().ListByUser(mock.Anything, userID).Return([]*entity.WishlistItem{
		{ProductID: product.ID, Product: product},
		{ProductID: uuid.New()},
	}, nil)

	products, err := fx.service.ListWishlist(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, []*entity.Product{product}, products)
}

func TestWishlistService_AddToWishlist_New(t *testing.T) {
	fx := createTestWishlistService(t)
	userID, product := uuid.New(), &entity.Product{ID: uuid.New()}

	fx.productRepo.EXPECT().FindByID(mock.Anything, product.ID).Return(product, nil)
	fx.wishlistRepo.EXPECT().Exists(mock.Anything, userID, product.ID).Return(false, nil)
	fx.wishlistRepo.EXPECT().
		Add(mock.Anything, mock.MatchedBy(func(item *entity.WishlistItem) bool {
			return item.UserID == userID && item.ProductID == product.ID
		})).
		Return(nil)

	got, created, err := fx.service.AddToWishlist(context.Background(), userID, product.ID)

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, product, got)
}

func TestWishlistService_AddToWishlist_AlreadyPresent(t *testing.T) {
	fx := createTestWishlistService(t)
	userID, product := uuid.New(), &entity.Product{ID: uuid.New()}

	fx.productRepo.EXPECT().FindByID(mock.Anything, product.ID).Return(product, nil)
	fx.wishlistRepo.EXPECT().Exists(mock.Anything, userID, product.ID).Return(true, nil)

	got, created, err := fx.service.AddToWishlist(context.Background(), userID, product.ID)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, product, got)
}

func TestWishlistService_AddToWishlist_UnknownProduct(t *testing.T) {
	fx := createTestWishlistService(t)
	productID := uuid.New()

	fx.productRepo.EXPECT().FindByID(mock.Anything, productID).Return(nil, repository.ErrProductNotFound)

	_, _, err := fx.service.AddToWishlist(context.Background(), uuid.New(), productID)

	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestWishlistService_RemoveFromWishlist(t *testing.T) {
	fx := createTestWishlistService(t)
	userID, productID := uuid.New(), uuid.New()

	fx.wishlistRepo.EXPECT().Remove(mock.Anything, userID, productID).Return(nil).Once()
	fx.wishlistRepo.EXPECT().Remove(mock.Anything, userID, productID).Return(repository.ErrWishlistItemNotFound).Once()

	require.NoError(t, fx.service.RemoveFromWishlist(context.Background(), userID, productID))
	assert.ErrorIs(t, fx.service.RemoveFromWishlist(context.Background(), userID, productID), domainerrors.ErrWishlistItemNotFound)
}
