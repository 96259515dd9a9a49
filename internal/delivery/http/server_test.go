package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	httpmiddleware "storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router"
	"storefront/internal/delivery/http/router/handler"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	mockSvc "storefront/internal/mocks/service"
	mockUsecase "storefront/internal/mocks/usecase"
	"storefront/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	adminToken = "admin-token"
	userToken  = "user-token"
)

type serverFixtures struct {
	echo     *echo.Echo
	products *mockUsecase.MockProductUsecase
	auth     *mockUsecase.MockAuthUsecase
	orders   *mockUsecase.MockOrderUsecase
	wishlist *mockUsecase.MockWishlistUsecase
	uploads  *mockUsecase.MockUploadUsecase
	adminID  uuid.UUID
	userID   uuid.UUID
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Details string `json:"details"`
	} `json:"error"`
}

func newTestServer(t *testing.T) serverFixtures {
	t.Helper()

	cfg := &config.Config{}
	cfg.HTTP.MaxRequestBodySize = "100KB"
	cfg.HTTP.MaxUploadSize = "1MB"
	cfg.Storage = &config.StorageConfig{PublicPrefix: "/uploads/"}

	fx := serverFixtures{
		products: mockUsecase.NewMockProductUsecase(t),
		auth:     mockUsecase.NewMockAuthUsecase(t),
		orders:   mockUsecase.NewMockOrderUsecase(t),
		wishlist: mockUsecase.NewMockWishlistUsecase(t),
		uploads:  mockUsecase.NewMockUploadUsecase(t),
		adminID:  uuid.New(),
		userID:   uuid.New(),
	}

	tokens := mockSvc.NewMockTokenService(t)
	tokens.EXPECT().ValidateToken(mock.Anything).RunAndReturn(func(token string) (*service.Claims, error) {
		switch token {
		case adminToken:
			return &service.Claims{Role: entity.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: fx.adminID.String()}}, nil
		case userToken:
			return &service.Claims{Role: entity.RoleUser, RegisteredClaims: jwt.RegisteredClaims{Subject: fx.userID.String()}}, nil
		default:
			return nil, errors.New("bad token")
		}
	}).Maybe()

	fx.echo = newEcho(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router.NewRouter(router.RouterParams{
		ProductHandler:  handler.NewProductHandler(fx.products),
		AuthHandler:     handler.NewAuthHandler(fx.auth),
		OrderHandler:    handler.NewOrderHandler(fx.orders),
		WishlistHandler: handler.NewWishlistHandler(fx.wishlist),
		UploadHandler:   handler.NewUploadHandler(fx.uploads),
		AuthMiddleware:  httpmiddleware.NewAuthMiddleware(tokens),
		Config:          cfg,
	}).RegisterRoutes(fx.echo)

	return fx
}

func (fx serverFixtures) do(t *testing.T, method, target, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	fx.echo.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func validProductBody() map[string]any {
	return map[string]any{
		"name":            "Bamboo Bowl",
		"price":           12.5,
		"image":           "/uploads/bowl.png",
		"description":     "Hand made",
		"category":        "Kitchenware",
		"communityImpact": "Supports artisans",
	}
}

func TestServer_Health(t *testing.T) {
	fx := newTestServer(t)

	rec, env := fx.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))
}

func TestServer_ListProducts(t *testing.T) {
	fx := newTestServer(t)
	products := []*entity.Product{{ID: uuid.New(), Name: "Bowl", Price: 10}}
	fx.products.EXPECT().ListProducts(mock.Anything).Return(products, nil)

	rec, env := fx.do(t, http.MethodGet, "/api/products", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []*entity.Product
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, products[0].ID, got[0].ID)
}

func TestServer_GetProduct(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		fx := newTestServer(t)

		rec, env := fx.do(t, http.MethodGet, "/api/products/not-a-uuid", "", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		fx := newTestServer(t)
		id := uuid.New()
		fx.products.EXPECT().GetProduct(mock.Anything, id).Return(nil, domainerrors.ErrProductNotFound)

		rec, env := fx.do(t, http.MethodGet, "/api/products/"+id.String(), "", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Product not found", env.Message)
	})
}

func TestServer_ProductQRCode(t *testing.T) {
	fx := newTestServer(t)
	id := uuid.New()
	fx.products.EXPECT().GenerateProductQR(mock.Anything, id).Return([]byte("\x89PNG"), nil)

	rec, _ := fx.do(t, http.MethodGet, "/api/products/"+id.String()+"/qrcode", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
}

func TestServer_ResolveProductQR(t *testing.T) {
	fx := newTestServer(t)
	id := uuid.New()
	link := "http://localhost:3000/products/" + id.String()
	fx.products.EXPECT().ResolveProductQR(mock.Anything, link).Return(&entity.Product{ID: id}, nil)

	rec, env := fx.do(t, http.MethodGet, "/api/products/resolve?code="+url.QueryEscape(link), "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got entity.Product
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, id, got.ID)

	rec, env = fx.do(t, http.MethodGet, "/api/products/resolve", "", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestServer_CreateProduct_Authorization(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantCode   string
	}{
		{"anonymous", "", http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"invalid token", "garbage", http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"regular user", userToken, http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newTestServer(t)

			rec, env := fx.do(t, http.MethodPost, "/api/products", tt.token, validProductBody())

			assert.Equal(t, tt.wantStatus, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestServer_CreateProduct(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		fx := newTestServer(t)
		created := &entity.Product{ID: uuid.New(), Name: "Bamboo Bowl"}
		fx.products.EXPECT().
			CreateProduct(mock.Anything, mock.MatchedBy(func(in *usecase.ProductInput) bool {
				return in.Name == "Bamboo Bowl" && in.Category == entity.CategoryKitchenware
			})).
			Return(created, nil)

		rec, env := fx.do(t, http.MethodPost, "/api/products", adminToken, validProductBody())

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, env.Success)
	})

	t.Run("validation", func(t *testing.T) {
		fx := newTestServer(t)
		body := validProductBody()
		body["category"] = "Toys"
		body["price"] = -1

		rec, env := fx.do(t, http.MethodPost, "/api/products", adminToken, body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, env.Error.Details, "category must be one of")
		assert.Contains(t, env.Error.Details, "price must be at least 0")
	})
}

func TestServer_DeleteProduct(t *testing.T) {
	fx := newTestServer(t)
	id := uuid.New()
	fx.products.EXPECT().DeleteProduct(mock.Anything, id).Return(nil)

	rec, _ := fx.do(t, http.MethodDelete, "/api/products/"+id.String(), adminToken, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Auth(t *testing.T) {
	t.Run("register", func(t *testing.T) {
		fx := newTestServer(t)
		out := &usecase.AuthOutput{Token: "jwt", User: &entity.User{ID: uuid.New(), Email: "a@b.co", Role: entity.RoleUser}}
		fx.auth.EXPECT().Register(mock.Anything, &usecase.RegisterInput{Name: "Ann", Email: "a@b.co", Password: "secret1"}).Return(out, nil)

		rec, env := fx.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Ann", "email": "a@b.co", "password": "secret1",
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		var got usecase.AuthOutput
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "jwt", got.Token)
	})

	t.Run("login failure surfaces message", func(t *testing.T) {
		fx := newTestServer(t)
		fx.auth.EXPECT().Login(mock.Anything, mock.Anything).Return(nil, domainerrors.ErrInvalidCredentials)

		rec, env := fx.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "a@b.co", "password": "nope",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid email or password", env.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		fx := newTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		fx.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_Orders(t *testing.T) {
	t.Run("place", func(t *testing.T) {
		fx := newTestServer(t)
		productID := uuid.New()
		order := &entity.Order{ID: uuid.New(), UserID: fx.userID, Status: entity.OrderStatusPending, TotalAmount: 20}
		fx.orders.EXPECT().
			PlaceOrder(mock.Anything, fx.userID, mock.MatchedBy(func(in *usecase.PlaceOrderInput) bool {
				return len(in.Items) == 1 && in.Items[0].ProductID == productID && in.Items[0].Quantity == 2
			})).
			Return(order, nil)

		rec, env := fx.do(t, http.MethodPost, "/api/orders", userToken, map[string]any{
			"items":       []map[string]any{{"product": productID, "quantity": 2, "price": 10}},
			"totalAmount": 20,
			"shippingAddress": map[string]string{
				"street": "1 Main", "city": "Town", "state": "ST", "zipCode": "12345", "country": "US",
			},
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		var got entity.Order
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, entity.OrderStatusPending, got.Status)
	})

	t.Run("requires login", func(t *testing.T) {
		fx := newTestServer(t)

		rec, _ := fx.do(t, http.MethodGet, "/api/orders/my", "", nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("list mine", func(t *testing.T) {
		fx := newTestServer(t)
		fx.orders.EXPECT().ListMyOrders(mock.Anything, fx.userID).Return([]*entity.Order{{ID: uuid.New()}}, nil)

		rec, _ := fx.do(t, http.MethodGet, "/api/orders/my", userToken, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestServer_Wishlist(t *testing.T) {
	productID := uuid.New()
	product := &entity.Product{ID: productID, Name: "Bowl"}

	t.Run("add new is 201", func(t *testing.T) {
		fx := newTestServer(t)
		fx.wishlist.EXPECT().AddToWishlist(mock.Anything, fx.userID, productID).Return(product, true, nil)

		rec, _ := fx.do(t, http.MethodPost, "/api/wishlist", userToken, map[string]any{"productId": productID})

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("add existing is 200", func(t *testing.T) {
		fx := newTestServer(t)
		fx.wishlist.EXPECT().AddToWishlist(mock.Anything, fx.userID, productID).Return(product, false, nil)

		rec, _ := fx.do(t, http.MethodPost, "/api/wishlist", userToken, map[string]any{"productId": productID})

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("remove absent is 404", func(t *testing.T) {
		fx := newTestServer(t)
		fx.wishlist.EXPECT().RemoveFromWishlist(mock.Anything, fx.userID, productID).Return(domainerrors.ErrWishlistItemNotFound)

		rec, env := fx.do(t, http.MethodDelete, "/api/wishlist/"+productID.String(), userToken, nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "WISHLIST_ITEM_NOT_FOUND", env.Error.Code)
	})

	t.Run("list", func(t *testing.T) {
		fx := newTestServer(t)
		fx.wishlist.EXPECT().ListWishlist(mock.Anything, fx.userID).Return([]*entity.Product{product}, nil)

		rec, env := fx.do(t, http.MethodGet, "/api/wishlist", userToken, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got []*entity.Product
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 1)
	})
}

func TestServer_Upload(t *testing.T) {
	fx := newTestServer(t)
	fx.uploads.EXPECT().
		UploadImage(mock.Anything, mock.MatchedBy(func(in *usecase.UploadImageInput) bool {
			return in.Filename == "bowl.png"
		})).
		Return("/uploads/abc.png", nil)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "bowl.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+adminToken)
	rec := httptest.NewRecorder()

	fx.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var result handler.UploadResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "/uploads/abc.png", result.ImageURL)
}

func TestServer_ServeImage(t *testing.T) {
	fx := newTestServer(t)
	fx.uploads.EXPECT().OpenImage(mock.Anything, "abc.png").
		Return(io.NopCloser(strings.NewReader("pixels")), "image/png", nil)

	rec, _ := fx.do(t, http.MethodGet, "/uploads/abc.png", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "pixels", rec.Body.String())
}
