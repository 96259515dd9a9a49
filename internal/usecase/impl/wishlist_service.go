package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
	logger       *slog.Logger
}

// WishlistServiceParams holds dependencies for WishlistService, injected by Fx.
type WishlistServiceParams struct {
	fx.In

	WishlistRepo repository.WishlistRepository
	ProductRepo  repository.ProductRepository
	Logger       *slog.Logger
}

// NewWishlistService creates the wishlist use case.
func NewWishlistService(params WishlistServiceParams) usecase.WishlistUsecase {
	return &wishlistService{
		wishlistRepo: params.WishlistRepo,
		productRepo:  params.ProductRepo,
		logger:       params.Logger,
	}
}

func (srv *wishlistService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *wishlistService) ListWishlist(ctx context.Context, userID uuid.UUID) ([]*entity.Product, error) {
	items, err := srv.wishlistRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list wishlist")
	}

	products := make([]*entity.Product, 0, len(items))
	for _, item := range items {
		if item.Product != nil {
			products = append(products, item.Product)
		}
	}

	return products, nil
}

func (srv *wishlistService) AddToWishlist(ctx context.Context, userID, productID uuid.UUID) (*entity.Product, bool, error) {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, false, mapProductError(err)
	}

	exists, err := srv.wishlistRepo.Exists(ctx, userID, productID)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to check wishlist")
	}
	if exists {
		return product, false, nil
	}

	item := &entity.WishlistItem{
		UserID:    userID,
		ProductID: productID,
	}
	if err := srv.wishlistRepo.Add(ctx, item); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, false, domainerrors.ErrProductNotFound
		}

		return nil, false, errors.Wrap(err, "failed to add wishlist item")
	}

	srv.log(ctx).Debug("Wishlist item added", slog.String("product_id", productID.String()))

	return product, true, nil
}

func (srv *wishlistService) RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) error {
	if err := srv.wishlistRepo.Remove(ctx, userID, productID); err != nil {
		if errors.Is(err, repository.ErrWishlistItemNotFound) {
			return domainerrors.ErrWishlistItemNotFound
		}

		return errors.Wrap(err, "failed to remove wishlist item")
	}

	return nil
}
