// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type productService struct {
	productRepo repository.ProductRepository
	qrService   service.QRCodeService
	logger      *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	QRService   service.QRCodeService
	Logger      *slog.Logger
}

// NewProductService creates the catalog use case.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	return &productService{
		productRepo: params.ProductRepo,
		qrService:   params.QRService,
		logger:      params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *productService) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.productRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

func (srv *productService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapProductError(err)
	}

	return product, nil
}

func (srv *productService) CreateProduct(ctx context.Context, input *usecase.ProductInput) (*entity.Product, error) {
	product := &entity.Product{
		InStock:             true,
		SustainabilityScore: entity.DefaultSustainabilityScore,
	}
	applyProductInput(product, input)

	if err := srv.productRepo.Create(ctx, product); err != nil {
		srv.log(ctx).Error("Failed to create product", slog.String("name", input.Name), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.String("product_id", product.ID.String()))

	return product, nil
}

func (srv *productService) UpdateProduct(ctx context.Context, id uuid.UUID, input *usecase.ProductInput) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapProductError(err)
	}

	applyProductInput(product, input)

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, mapProductError(err)
	}

	srv.log(ctx).Info("Product updated", slog.String("product_id", id.String()))

	return product, nil
}

func (srv *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := srv.productRepo.Delete(ctx, id); err != nil {
		return mapProductError(err)
	}

	srv.log(ctx).Info("Product deleted", slog.String("product_id", id.String()))

	return nil
}

func (srv *productService) GenerateProductQR(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if _, err := srv.productRepo.FindByID(ctx, id); err != nil {
		return nil, mapProductError(err)
	}

	png, err := srv.qrService.GenerateProductQR(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate product QR code")
	}

	return png, nil
}

func applyProductInput(product *entity.Product, input *usecase.ProductInput) {
	product.Name = input.Name
	product.Price = input.Price
	product.Image = input.Image
	product.Description = input.Description
	product.Category = input.Category
	product.CommunityImpact = input.CommunityImpact

	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.SustainabilityScore != nil {
		product.SustainabilityScore = *input.SustainabilityScore
	}
}

func (srv *productService) ResolveProductQR(ctx context.Context, code string) (*entity.Product, error) {
	id, err := srv.qrService.ParseProductQR(code)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return srv.GetProduct(ctx, id)
}

func mapProductError(err error) error {
	if errors.Is(err, repository.ErrProductNotFound) {
		return domainerrors.ErrProductNotFound
	}

	return errors.Wrap(err, "product repository failed")
}
