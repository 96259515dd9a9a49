// Package wishlist keeps the shopper's saved products in local state and
// can reconcile them with the server copy.
package wishlist

import (
	"context"
	"log/slog"
	"sync"

	"storefront/internal/client/localstore"
	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// StoreKey is the local state key holding the wishlist.
const StoreKey = "wishlist"

// Remote is the server-side wishlist of the signed-in user.
type Remote interface {
	Wishlist(ctx context.Context, token string) ([]entity.Product, error)
	AddToWishlist(ctx context.Context, token string, productID uuid.UUID) (bool, error)
}

// Wishlist is a set of products keyed by ID, kept in insertion order.
type Wishlist struct {
	mu     sync.Mutex
	store  *localstore.Store
	logger *slog.Logger
	items  []entity.Product
}

// New restores the wishlist from store.
func New(ctx context.Context, store *localstore.Store, logger *slog.Logger) *Wishlist {
	w := &Wishlist{store: store, logger: logger}
	for _, p := range localstore.Get(ctx, store, StoreKey, []entity.Product{}) {
		if p.ID != uuid.Nil && w.indexOf(p.ID) < 0 {
			w.items = append(w.items, p)
		}
	}

	return w
}

// Add saves product. Adding a saved product is a no-op.
func (w *Wishlist) Add(ctx context.Context, product entity.Product) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.indexOf(product.ID) >= 0 {
		return
	}

	w.items = append(w.items, product)
	w.persist(ctx)
}

func (w *Wishlist) Remove(ctx context.Context, productID uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.indexOf(productID)
	if i < 0 {
		return
	}

	w.items = append(w.items[:i], w.items[i+1:]...)
	w.persist(ctx)
}

func (w *Wishlist) Contains(productID uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.indexOf(productID) >= 0
}

func (w *Wishlist) Clear(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.items = nil
	w.persist(ctx)
}

func (w *Wishlist) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.items)
}

// Items returns a copy in insertion order.
func (w *Wishlist) Items() []entity.Product {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]entity.Product, len(w.items))
	copy(out, w.items)

	return out
}

// Sync union-merges with the server: remote-only products are saved
// locally and local-only products are pushed. Nothing is removed on
// either side. Push failures are returned after every push was tried.
func (w *Wishlist) Sync(ctx context.Context, remote Remote, token string) error {
	remoteItems, err := remote.Wishlist(ctx, token)
	if err != nil {
		return errors.Wrap(err, "fetch remote wishlist")
	}

	remoteIDs := make(map[uuid.UUID]struct{}, len(remoteItems))
	for _, p := range remoteItems {
		remoteIDs[p.ID] = struct{}{}
	}

	w.mu.Lock()
	var toPush []uuid.UUID
	for _, p := range w.items {
		if _, ok := remoteIDs[p.ID]; !ok {
			toPush = append(toPush, p.ID)
		}
	}
	added := 0
	for _, p := range remoteItems {
		if w.indexOf(p.ID) < 0 {
			w.items = append(w.items, p)
			added++
		}
	}
	if added > 0 {
		w.persist(ctx)
	}
	w.mu.Unlock()

	var pushErr error
	for _, id := range toPush {
		if _, err := remote.AddToWishlist(ctx, token, id); err != nil {
			w.logger.WarnContext(ctx, "Failed to push wishlist item",
				slog.String("product_id", id.String()), slog.Any("error", err))
			if pushErr == nil {
				pushErr = errors.Wrapf(err, "push product %s", id)
			}
		}
	}

	w.logger.DebugContext(ctx, "Wishlist synced",
		slog.Int("pulled", added), slog.Int("pushed", len(toPush)))

	return pushErr
}

func (w *Wishlist) indexOf(productID uuid.UUID) int {
	for i := range w.items {
		if w.items[i].ID == productID {
			return i
		}
	}

	return -1
}

// persist must be called with mu held.
func (w *Wishlist) persist(ctx context.Context) {
	items := w.items
	if items == nil {
		items = []entity.Product{}
	}

	if err := w.store.Set(ctx, StoreKey, items); err != nil {
		w.logger.ErrorContext(ctx, "Failed to persist wishlist", slog.Any("error", err))
	}
}
