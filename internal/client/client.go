// Package client wires the shopper-side state containers around one
// local store and one API client.
package client

import (
	"context"
	"log/slog"
	"net/http"

	"storefront/internal/client/api"
	"storefront/internal/client/cart"
	"storefront/internal/client/catalog"
	"storefront/internal/client/checkout"
	"storefront/internal/client/localstore"
	"storefront/internal/client/session"
	"storefront/internal/client/wishlist"

	"github.com/pkg/errors"
)

type Options struct {
	// BaseURL is the API root, e.g. "http://localhost:5050".
	BaseURL string

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client

	// BootstrapAdmin enables the offline admin login. See session.Options.
	BootstrapAdmin *session.Credentials
}

type Client struct {
	API      *api.Client
	Cart     *cart.Cart
	Wishlist *wishlist.Wishlist
	Session  *session.Session
	Catalog  *catalog.Catalog
	Checkout *checkout.Checkout

	store *localstore.Store
}

// New restores all state from store. Close closes store.
func New(ctx context.Context, store *localstore.Store, opts Options, logger *slog.Logger) *Client {
	var apiOpts []api.Option
	if opts.HTTPClient != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(opts.HTTPClient))
	}
	apiClient := api.New(opts.BaseURL, apiOpts...)

	shopperCart := cart.New(ctx, store, logger.With(slog.String("component", "cart")))
	sess := session.New(ctx, store, apiClient, logger.With(slog.String("component", "session")), session.Options{
		BootstrapAdmin: opts.BootstrapAdmin,
	})

	return &Client{
		API:      apiClient,
		Cart:     shopperCart,
		Wishlist: wishlist.New(ctx, store, logger.With(slog.String("component", "wishlist"))),
		Session:  sess,
		Catalog:  catalog.New(apiClient, sess, logger.With(slog.String("component", "catalog"))),
		Checkout: checkout.New(apiClient, sess, shopperCart, logger.With(slog.String("component", "checkout"))),
		store:    store,
	}
}

// Open opens the state bucket at stateURL and builds a Client on it.
func Open(ctx context.Context, stateURL string, opts Options, logger *slog.Logger) (*Client, error) {
	store, err := localstore.Open(ctx, stateURL, logger)
	if err != nil {
		return nil, err
	}

	return New(ctx, store, opts, logger), nil
}

// SyncWishlist merges the local wishlist with the signed-in user's server copy.
func (c *Client) SyncWishlist(ctx context.Context) error {
	if !c.Session.IsAuthenticated() {
		return api.ErrNotAuthenticated
	}

	return errors.WithStack(c.Wishlist.Sync(ctx, c.API, c.Session.Token()))
}

func (c *Client) Close() error {
	return c.store.Close()
}
