package checkout

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/client/api"
	"storefront/internal/client/cart"
	"storefront/internal/client/localstore"
	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

type fakeSession struct {
	token string
}

func (s fakeSession) IsAuthenticated() bool { return s.token != "" }
func (s fakeSession) Token() string         { return s.token }

func address() api.ShippingAddress {
	return api.ShippingAddress{Street: "1 Main St", City: "Town", State: "ST", ZipCode: "12345", Country: "US"}
}

func newCart(t *testing.T) *cart.Cart {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := localstore.New(memblob.OpenBucket(nil), logger)
	t.Cleanup(func() { _ = store.Close() })

	return cart.New(context.Background(), store, logger)
}

func newServer(t *testing.T, status int, body string, seen *api.OrderRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestCheckout_SuccessClearsCart(t *testing.T) {
	ctx := context.Background()
	c := newCart(t)
	p := entity.Product{ID: uuid.New(), Name: "Pot", Price: 100}
	c.Add(ctx, p, 2)
	c.Add(ctx, entity.Product{ID: uuid.New(), Name: "Cup", Price: 50}, 1)

	orderID := uuid.New()
	var seen api.OrderRequest
	srv := newServer(t, http.StatusCreated,
		`{"success":true,"data":{"id":"`+orderID.String()+`","status":"pending","totalAmount":250}}`, &seen)

	co := New(api.New(srv.URL), fakeSession{token: "tok"}, c, slog.New(slog.NewTextHandler(io.Discard, nil)))
	order, err := co.PlaceOrder(ctx, address())

	require.NoError(t, err)
	assert.Equal(t, orderID, order.ID)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Empty(t, c.Lines())

	require.Len(t, seen.Items, 2)
	assert.Equal(t, p.ID, seen.Items[0].ProductID)
	assert.Equal(t, 2, seen.Items[0].Quantity)
	assert.InDelta(t, 250.0, seen.TotalAmount, 1e-9)
	assert.Equal(t, "Town", seen.ShippingAddress.City)
}

func TestCheckout_ServerErrorKeepsCart(t *testing.T) {
	ctx := context.Background()
	c := newCart(t)
	c.Add(ctx, entity.Product{ID: uuid.New(), Name: "Pot", Price: 100}, 1)
	srv := newServer(t, http.StatusInternalServerError, `{"success":false,"message":"Something went wrong"}`, nil)

	co := New(api.New(srv.URL), fakeSession{token: "tok"}, c, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := co.PlaceOrder(ctx, address())

	require.Error(t, err)
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Something went wrong", apiErr.Message)
	assert.Len(t, c.Lines(), 1)
}

func TestCheckout_RequiresSession(t *testing.T) {
	ctx := context.Background()
	c := newCart(t)
	c.Add(ctx, entity.Product{ID: uuid.New(), Price: 1}, 1)

	co := New(api.New("http://127.0.0.1:1"), fakeSession{}, c, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := co.PlaceOrder(ctx, address())
	assert.True(t, errors.Is(err, api.ErrNotAuthenticated))

	_, err = co.MyOrders(ctx)
	assert.True(t, errors.Is(err, api.ErrNotAuthenticated))
	assert.Len(t, c.Lines(), 1)
}

func TestCheckout_RejectsEmptyCart(t *testing.T) {
	co := New(api.New("http://127.0.0.1:1"), fakeSession{token: "tok"}, newCart(t), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := co.PlaceOrder(context.Background(), address())

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_ValidatesAddress(t *testing.T) {
	ctx := context.Background()
	c := newCart(t)
	c.Add(ctx, entity.Product{ID: uuid.New(), Price: 1}, 1)
	co := New(api.New("http://127.0.0.1:1"), fakeSession{token: "tok"}, c, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := co.PlaceOrder(ctx, api.ShippingAddress{Street: "1 Main St"})

	var verr *api.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "shippingAddress.city: required")
	assert.Len(t, c.Lines(), 1)
}

func TestCheckout_UnauthorizedResponse(t *testing.T) {
	ctx := context.Background()
	c := newCart(t)
	c.Add(ctx, entity.Product{ID: uuid.New(), Price: 1}, 1)
	srv := newServer(t, http.StatusUnauthorized, `{"message":"Authentication required"}`, nil)

	co := New(api.New(srv.URL), fakeSession{token: "tok"}, c, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := co.PlaceOrder(ctx, address())

	assert.True(t, errors.Is(err, api.ErrNotAuthenticated))
	assert.Len(t, c.Lines(), 1)
}
