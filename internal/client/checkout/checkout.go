// Package checkout turns the cart into a server-side order.
package checkout

import (
	"context"
	"log/slog"
	"math"

	"storefront/internal/client/api"
	"storefront/internal/client/cart"
	"storefront/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrEmptyCart is returned when there is nothing to order.
var ErrEmptyCart = errors.New("cart is empty")

// Remote is the order half of the API client.
type Remote interface {
	PlaceOrder(ctx context.Context, token string, input *api.OrderRequest) (*entity.Order, error)
	MyOrders(ctx context.Context, token string) ([]entity.Order, error)
}

// Session reports whether a user is signed in and with which token.
type Session interface {
	IsAuthenticated() bool
	Token() string
}

type Checkout struct {
	remote  Remote
	session Session
	cart    *cart.Cart
	logger  *slog.Logger
}

func New(remote Remote, session Session, cart *cart.Cart, logger *slog.Logger) *Checkout {
	return &Checkout{remote: remote, session: session, cart: cart, logger: logger}
}

// PlaceOrder submits the current cart once. The cart is cleared only when
// the server created the order; on any error it is left as it was.
func (c *Checkout) PlaceOrder(ctx context.Context, address api.ShippingAddress) (*entity.Order, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}

	lines := c.cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	request := buildRequest(lines, address)
	if err := api.Validate(request); err != nil {
		return nil, err
	}

	order, err := c.remote.PlaceOrder(ctx, token, request)
	if err != nil {
		return nil, errors.Wrap(err, "place order")
	}

	c.cart.Clear(ctx)
	c.logger.InfoContext(ctx, "Order placed",
		slog.String("order_id", order.ID.String()),
		slog.Float64("total", order.TotalAmount),
	)

	return order, nil
}

// MyOrders lists the signed-in user's orders, newest first.
func (c *Checkout) MyOrders(ctx context.Context) ([]entity.Order, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}

	orders, err := c.remote.MyOrders(ctx, token)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	return orders, nil
}

func (c *Checkout) token() (string, error) {
	if !c.session.IsAuthenticated() || c.session.Token() == "" {
		return "", api.ErrNotAuthenticated
	}

	return c.session.Token(), nil
}

func buildRequest(lines []cart.Line, address api.ShippingAddress) *api.OrderRequest {
	request := &api.OrderRequest{
		Items:           make([]api.OrderItem, 0, len(lines)),
		ShippingAddress: address,
	}

	var total float64
	for _, l := range lines {
		request.Items = append(request.Items, api.OrderItem{
			ProductID: l.Product.ID,
			Quantity:  l.Quantity,
			Price:     l.Product.Price,
		})
		total += l.Subtotal()
	}
	request.TotalAmount = math.Round(total*100) / 100

	return request
}
