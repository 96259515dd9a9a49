package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, data any, message string) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
		"success": status < 300,
		"code":    status,
		"message": message,
		"data":    data,
	}))
}

func TestClient_ListProducts(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		writeEnvelope(t, w, http.StatusOK, []entity.Product{{ID: id, Name: "Bowl", Price: 10}}, "Success")
	}))
	defer srv.Close()

	products, err := New(srv.URL + "/").ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, id, products[0].ID)
}

func TestClient_ResolveProduct(t *testing.T) {
	id := uuid.New()
	code := "https://shop.example.com/products/" + id.String()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/resolve", r.URL.Path)
		assert.Equal(t, code, r.URL.Query().Get("code"))
		writeEnvelope(t, w, http.StatusOK, entity.Product{ID: id, Name: "Bowl"}, "")
	}))
	defer srv.Close()

	product, err := New(srv.URL).ResolveProduct(context.Background(), code)

	require.NoError(t, err)
	assert.Equal(t, id, product.ID)
}

func TestClient_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeEnvelope(t, w, http.StatusOK, []entity.Order{}, "")
	}))
	defer srv.Close()

	_, err := New(srv.URL).MyOrders(context.Background(), "tok")

	assert.NoError(t, err)
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantCode    string
		wantAuth    bool
	}{
		{
			name:        "envelope message",
			status:      http.StatusConflict,
			body:        `{"success":false,"message":"Product is out of stock","error":{"code":"PRODUCT_OUT_OF_STOCK"}}`,
			wantMessage: "Product is out of stock",
			wantCode:    "PRODUCT_OUT_OF_STOCK",
		},
		{
			name:        "string error field",
			status:      http.StatusBadRequest,
			body:        `{"error":"bad things"}`,
			wantMessage: "bad things",
		},
		{
			name:        "generic fallback",
			status:      http.StatusBadGateway,
			body:        `<html>oops</html>`,
			wantMessage: "Request failed with status 502",
		},
		{
			name:        "unauthorized",
			status:      http.StatusUnauthorized,
			body:        `{"message":"Authentication required"}`,
			wantMessage: "Authentication required",
			wantAuth:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := New(srv.URL).Login(context.Background(), &LoginRequest{Email: "a@b.co", Password: "x"})
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, err.Error())
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantAuth, errors.Is(err, ErrNotAuthenticated))
		})
	}
}

func TestClient_AddToWishlistReportsCreated(t *testing.T) {
	status := http.StatusCreated
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotEmpty(t, body["productId"])
		writeEnvelope(t, w, status, nil, "")
	}))
	defer srv.Close()

	c := New(srv.URL)

	created, err := c.AddToWishlist(context.Background(), "tok", uuid.New())
	require.NoError(t, err)
	assert.True(t, created)

	status = http.StatusOK
	created, err = c.AddToWishlist(context.Background(), "tok", uuid.New())
	require.NoError(t, err)
	assert.False(t, created)
}

func TestClient_UploadImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		raw, _ := io.ReadAll(file)
		assert.Equal(t, "bowl.png", header.Filename)
		assert.Equal(t, "pixels", string(raw))
		writeEnvelope(t, w, http.StatusOK, map[string]string{"imageUrl": "/uploads/x.png"}, "")
	}))
	defer srv.Close()

	url, err := New(srv.URL).UploadImage(context.Background(), "tok", "bowl.png", strings.NewReader("pixels"))

	require.NoError(t, err)
	assert.Equal(t, "/uploads/x.png", url)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := New(srv.URL).ListProducts(context.Background())

	require.Error(t, err)
	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
}

func TestValidate(t *testing.T) {
	err := Validate(&RegisterRequest{Name: "", Email: "nope", Password: "1"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name: required")
	assert.Contains(t, verr.Fields, "email: email")
	assert.Contains(t, verr.Fields, "password: min=6")

	assert.NoError(t, Validate(&LoginRequest{Email: "a@b.co", Password: "x"}))
}
