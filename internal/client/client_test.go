package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"storefront/internal/client/api"
	"storefront/internal/client/session"
	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, w http.ResponseWriter, status int, data any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"success": true, "code": status, "data": data}))
}

// TestClient_ShoppingFlow exercises login, catalog, cart, checkout and
// restart against a fake API.
func TestClient_ShoppingFlow(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	product := entity.Product{ID: uuid.New(), Name: "Pot", Price: 100, InStock: true}
	user := &entity.User{ID: uuid.New(), Name: "Ann", Email: "ann@example.com", Role: entity.RoleUser}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		respond(t, w, http.StatusOK, api.AuthResult{Token: "tok", User: user})
	})
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, _ *http.Request) {
		respond(t, w, http.StatusOK, []entity.Product{product})
	})
	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, _ *http.Request) {
		respond(t, w, http.StatusCreated, entity.Order{ID: uuid.New(), Status: entity.OrderStatusPending, TotalAmount: 200})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	stateURL := (&url.URL{Scheme: "file", Path: t.TempDir()}).String()
	c, err := Open(ctx, stateURL, Options{BaseURL: srv.URL}, logger)
	require.NoError(t, err)

	_, err = c.Session.Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, c.Catalog.Load(ctx))

	p, ok := c.Catalog.Product(product.ID)
	require.True(t, ok)
	c.Cart.Add(ctx, p, 2)
	c.Wishlist.Add(ctx, p)
	require.NoError(t, c.Close())

	// A new process sees the same state.
	c, err = Open(ctx, stateURL, Options{BaseURL: srv.URL}, logger)
	require.NoError(t, err)
	defer c.Close()

	assert.True(t, c.Session.IsAuthenticated())
	assert.Equal(t, 2, c.Cart.TotalItems())
	assert.True(t, c.Wishlist.Contains(product.ID))

	order, err := c.Checkout.PlaceOrder(ctx, api.ShippingAddress{
		Street: "1 Main St", City: "Town", State: "ST", ZipCode: "12345", Country: "US",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Zero(t, c.Cart.TotalItems())
}

func TestClient_SyncWishlistRequiresSession(t *testing.T) {
	ctx := context.Background()
	stateURL := (&url.URL{Scheme: "file", Path: t.TempDir()}).String()
	c, err := Open(ctx, stateURL, Options{
		BaseURL:        "http://127.0.0.1:1",
		BootstrapAdmin: &session.Credentials{Email: "admin@salbonsustain.com", Password: "admin123"},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer c.Close()

	assert.True(t, errors.Is(c.SyncWishlist(ctx), api.ErrNotAuthenticated))

	_, err = c.Session.Login(ctx, "admin@salbonsustain.com", "admin123")
	require.NoError(t, err)
	assert.True(t, c.Session.IsAdmin())
}
