// Package cart keeps the shopper's cart in local state. It never talks to
// the server; checkout reads a snapshot from it.
package cart

import (
	"context"
	"log/slog"
	"sync"

	"storefront/internal/client/localstore"
	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// StoreKey is the local state key holding the cart.
const StoreKey = "cart"

// Line is one product in the cart. Quantity is always at least 1.
type Line struct {
	Product  entity.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Subtotal returns price times quantity.
func (l Line) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}

// Cart is an ordered list of lines, unique per product ID. It is safe for
// concurrent use and persists every mutation before returning.
type Cart struct {
	mu     sync.Mutex
	store  *localstore.Store
	logger *slog.Logger
	lines  []Line
}

// New restores the cart from store.
func New(ctx context.Context, store *localstore.Store, logger *slog.Logger) *Cart {
	lines := localstore.Get(ctx, store, StoreKey, []Line{})

	c := &Cart{store: store, logger: logger}

	// Drop anything a bad write or older client left behind and fold
	// repeated products into their first line.
	for _, l := range lines {
		if l.Quantity < 1 || l.Product.ID == uuid.Nil {
			continue
		}
		if i := c.indexOf(l.Product.ID); i >= 0 {
			c.lines[i].Quantity += l.Quantity
		} else {
			c.lines = append(c.lines, l)
		}
	}

	return c
}

// Add puts quantity units of product in the cart, merging with an existing
// line for the same product. A quantity below 1 adds one unit.
func (c *Cart) Add(ctx context.Context, product entity.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(product.ID); i >= 0 {
		c.lines[i].Quantity += quantity
	} else {
		c.lines = append(c.lines, Line{Product: product, Quantity: quantity})
	}

	c.persist(ctx)
}

// Remove drops the line for productID, if any.
func (c *Cart) Remove(ctx context.Context, productID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.remove(productID)
	c.persist(ctx)
}

// UpdateQuantity sets the quantity of an existing line. Zero or less
// removes it; an unknown product is ignored.
func (c *Cart) UpdateQuantity(ctx context.Context, productID uuid.UUID, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.remove(productID)
	} else if i := c.indexOf(productID); i >= 0 {
		c.lines[i].Quantity = quantity
	}

	c.persist(ctx)
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	c.persist(ctx)
}

// Lines returns a copy of the cart in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)

	return out
}

// TotalPrice is the sum of price times quantity over all lines.
func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, l := range c.lines {
		total += l.Subtotal()
	}

	return total
}

// TotalItems is the sum of quantities.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int
	for _, l := range c.lines {
		total += l.Quantity
	}

	return total
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return i
		}
	}

	return -1
}

func (c *Cart) remove(productID uuid.UUID) {
	if i := c.indexOf(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// persist must be called with mu held.
func (c *Cart) persist(ctx context.Context) {
	lines := c.lines
	if lines == nil {
		lines = []Line{}
	}

	if err := c.store.Set(ctx, StoreKey, lines); err != nil {
		c.logger.ErrorContext(ctx, "Failed to persist cart", slog.Any("error", err))
	}
}
