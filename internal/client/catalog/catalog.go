// Package catalog caches the product list and applies admin changes to
// the cache once the server has confirmed them.
package catalog

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"storefront/internal/client/api"
	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Remote is the catalog half of the API client.
type Remote interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	CreateProduct(ctx context.Context, token string, input *api.ProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, token string, id uuid.UUID, input *api.ProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, token string, id uuid.UUID) error
	UploadImage(ctx context.Context, token, filename string, r io.Reader) (string, error)
}

// TokenSource supplies the bearer token for admin calls.
type TokenSource interface {
	Token() string
}

type Catalog struct {
	mu       sync.RWMutex
	remote   Remote
	tokens   TokenSource
	logger   *slog.Logger
	products []entity.Product
	loaded   bool
}

func New(remote Remote, tokens TokenSource, logger *slog.Logger) *Catalog {
	return &Catalog{remote: remote, tokens: tokens, logger: logger}
}

// Load fetches the product list on first use. Later calls are no-ops.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	return c.Refresh(ctx)
}

// Refresh replaces the cache with the server's list.
func (c *Catalog) Refresh(ctx context.Context) error {
	products, err := c.remote.ListProducts(ctx)
	if err != nil {
		return errors.Wrap(err, "load products")
	}

	c.mu.Lock()
	c.products, c.loaded = products, true
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "Catalog loaded", slog.Int("count", len(products)))

	return nil
}

// Products returns a copy of the cached list in server order.
func (c *Catalog) Products() []entity.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entity.Product, len(c.products))
	copy(out, c.products)

	return out
}

// Product looks up a cached product.
func (c *Catalog) Product(id uuid.UUID) (entity.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(id); i >= 0 {
		return c.products[i], true
	}

	return entity.Product{}, false
}

// Add creates a product and appends the server's copy to the cache.
func (c *Catalog) Add(ctx context.Context, input *api.ProductInput) (*entity.Product, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}
	if err := validateProduct(input); err != nil {
		return nil, err
	}

	product, err := c.remote.CreateProduct(ctx, token, input)
	if err != nil {
		return nil, errors.Wrap(err, "add product")
	}

	c.mu.Lock()
	c.products = append(c.products, *product)
	c.mu.Unlock()

	return product, nil
}

// Update replaces a product and the cached copy.
func (c *Catalog) Update(ctx context.Context, id uuid.UUID, input *api.ProductInput) (*entity.Product, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}
	if err := validateProduct(input); err != nil {
		return nil, err
	}

	product, err := c.remote.UpdateProduct(ctx, token, id, input)
	if err != nil {
		return nil, errors.Wrap(err, "update product")
	}

	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.products[i] = *product
	} else {
		c.products = append(c.products, *product)
	}
	c.mu.Unlock()

	return product, nil
}

// Delete removes a product and its cached copy.
func (c *Catalog) Delete(ctx context.Context, id uuid.UUID) error {
	token, err := c.token()
	if err != nil {
		return err
	}

	if err := c.remote.DeleteProduct(ctx, token, id); err != nil {
		return errors.Wrap(err, "delete product")
	}

	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.products = append(c.products[:i], c.products[i+1:]...)
	}
	c.mu.Unlock()

	return nil
}

// UploadImage stores an image on the server and returns its URL for use
// as ProductInput.Image.
func (c *Catalog) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	token, err := c.token()
	if err != nil {
		return "", err
	}

	url, err := c.remote.UploadImage(ctx, token, filename, r)
	if err != nil {
		return "", errors.Wrap(err, "upload image")
	}

	return url, nil
}

func (c *Catalog) token() (string, error) {
	token := c.tokens.Token()
	if token == "" {
		return "", api.ErrNotAuthenticated
	}

	return token, nil
}

// indexOf must be called with mu held.
func (c *Catalog) indexOf(id uuid.UUID) int {
	for i := range c.products {
		if c.products[i].ID == id {
			return i
		}
	}

	return -1
}

// validateProduct applies the server rules plus a strictly positive price.
func validateProduct(input *api.ProductInput) error {
	if input == nil {
		return api.NewValidationError("product: required")
	}

	err := api.Validate(input)

	var verr *api.ValidationError
	switch {
	case err == nil:
		verr = api.NewValidationError()
	case !errors.As(err, &verr):
		return err
	}

	if input.Price <= 0 {
		verr.Fields = append(verr.Fields, "price: gt=0")
	}
	if len(verr.Fields) == 0 {
		return nil
	}

	return verr
}
