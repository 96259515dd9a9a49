// Package api is the typed HTTP client for the storefront REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// AuthResult is the body of a successful register or login.
type AuthResult = usecase.AuthOutput

// ProductInput, OrderRequest and the credential requests share their wire
// shape and validation rules with the server.
type (
	ProductInput    = usecase.ProductInput
	OrderRequest    = usecase.PlaceOrderInput
	OrderItem       = usecase.OrderItemInput
	ShippingAddress = usecase.ShippingAddressInput
	RegisterRequest = usecase.RegisterInput
	LoginRequest    = usecase.LoginInput
)

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient, e.g. to set a timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Client issues one request per call and never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the API rooted at baseURL, e.g. "http://localhost:5050".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListProducts(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	_, err := c.doJSON(ctx, http.MethodGet, "/api/products", "", nil, &products)

	return products, err
}

func (c *Client) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product := new(entity.Product)
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/products/"+id.String(), "", nil, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (c *Client) CreateProduct(ctx context.Context, token string, input *ProductInput) (*entity.Product, error) {
	product := new(entity.Product)
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/products", token, input, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, token string, id uuid.UUID, input *ProductInput) (*entity.Product, error) {
	product := new(entity.Product)
	if _, err := c.doJSON(ctx, http.MethodPut, "/api/products/"+id.String(), token, input, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, token string, id uuid.UUID) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/api/products/"+id.String(), token, nil, nil)

	return err
}

// ProductQRCode returns the PNG share code for a product.
func (c *Client) ProductQRCode(ctx context.Context, id uuid.UUID) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/products/"+id.String()+"/qrcode", "", nil, "")
	if err != nil {
		return nil, err
	}

	_, raw, err := c.send(req)

	return raw, err
}

// ResolveProduct returns the product behind scanned share code text.
func (c *Client) ResolveProduct(ctx context.Context, code string) (*entity.Product, error) {
	product := new(entity.Product)
	path := "/api/products/resolve?code=" + url.QueryEscape(code)
	if _, err := c.doJSON(ctx, http.MethodGet, path, "", nil, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (c *Client) Register(ctx context.Context, input *RegisterRequest) (*AuthResult, error) {
	result := new(AuthResult)
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", "", input, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *Client) Login(ctx context.Context, input *LoginRequest) (*AuthResult, error) {
	result := new(AuthResult)
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", input, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *Client) PlaceOrder(ctx context.Context, token string, input *OrderRequest) (*entity.Order, error) {
	order := new(entity.Order)
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/orders", token, input, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (c *Client) MyOrders(ctx context.Context, token string) ([]entity.Order, error) {
	var orders []entity.Order
	_, err := c.doJSON(ctx, http.MethodGet, "/api/orders/my", token, nil, &orders)

	return orders, err
}

func (c *Client) Wishlist(ctx context.Context, token string) ([]entity.Product, error) {
	var products []entity.Product
	_, err := c.doJSON(ctx, http.MethodGet, "/api/wishlist", token, nil, &products)

	return products, err
}

// AddToWishlist reports whether the server created a new entry.
func (c *Client) AddToWishlist(ctx context.Context, token string, productID uuid.UUID) (bool, error) {
	body := usecase.AddWishlistInput{ProductID: productID}
	status, err := c.doJSON(ctx, http.MethodPost, "/api/wishlist", token, body, nil)

	return status == http.StatusCreated, err
}

func (c *Client) RemoveFromWishlist(ctx context.Context, token string, productID uuid.UUID) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/api/wishlist/"+productID.String(), token, nil, nil)

	return err
}

// UploadImage posts the file as multipart field "image" and returns its URL.
func (c *Client) UploadImage(ctx context.Context, token, filename string, r io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", errors.Wrap(err, "read image")
	}
	if err := writer.Close(); err != nil {
		return "", errors.WithStack(err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload", token, &body, writer.FormDataContentType())
	if err != nil {
		return "", err
	}

	_, raw, err := c.send(req)
	if err != nil {
		return "", err
	}

	var result struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := decodeData(raw, &result); err != nil {
		return "", err
	}

	return result.ImageURL, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, in, out any) (int, error) {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return 0, errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, token, body, contentType)
	if err != nil {
		return 0, err
	}

	status, raw, err := c.send(req)
	if err != nil {
		return status, err
	}

	if out == nil {
		return status, nil
	}

	return status, decodeData(raw, out)
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

func (c *Client) send(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, errors.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, nil, errorFromResponse(resp.StatusCode, raw)
	}

	return resp.StatusCode, raw, nil
}

func decodeData(raw []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return errors.Wrap(err, "decode response")
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}

	return errors.Wrap(json.Unmarshal(env.Data, out), "decode response data")
}

// errorFromResponse prefers "message", then a string "error", then a
// generic text.
func errorFromResponse(status int, raw []byte) *Error {
	apiErr := &Error{Status: status}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		apiErr.Message = env.Message

		var detail struct {
			Code string `json:"code"`
		}
		var text string
		switch {
		case json.Unmarshal(env.Error, &text) == nil:
			if apiErr.Message == "" {
				apiErr.Message = text
			}
		case json.Unmarshal(env.Error, &detail) == nil:
			apiErr.Code = detail.Code
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = "Request failed with status " + strconv.Itoa(status)
	}

	return apiErr
}
