package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"storefront/internal/client"
	"storefront/internal/client/api"
	"storefront/internal/client/catalog"
	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type commands struct {
	client *client.Client
	out    io.Writer
}

func (c *commands) dispatch(ctx context.Context, name string, args []string) error {
	switch name {
	case "products":
		return c.products(ctx, args)
	case "product":
		return c.product(ctx, args)
	case "qrcode":
		return c.qrcode(ctx, args)
	case "scan":
		return c.scan(ctx, args)
	case "login":
		return c.login(ctx, args)
	case "register":
		return c.register(ctx, args)
	case "logout":
		c.client.Session.Logout(ctx)
		fmt.Fprintln(c.out, "signed out")

		return nil
	case "whoami":
		return c.whoami()
	case "cart":
		return c.cart(ctx, args)
	case "wishlist":
		return c.wishlist(ctx, args)
	case "checkout":
		return c.checkout(ctx, args)
	case "orders":
		return c.orders(ctx)
	case "upload":
		return c.upload(ctx, args)
	default:
		return errors.Errorf("unknown command %q", name)
	}
}

func (c *commands) products(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("products", flag.ContinueOnError)
	search := flags.String("search", "", "match name or description")
	category := flags.String("category", "", "one of the product categories")
	sortBy := flags.String("sort", string(catalog.SortByName), "sort order")
	maxPrice := flags.Float64("max-price", 0, "upper price bound, 0 for none")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if err := c.client.Catalog.Load(ctx); err != nil {
		return err
	}

	c.printProducts(c.client.Catalog.Filter(catalog.FilterOptions{
		Search:   *search,
		Category: entity.Category(*category),
		MaxPrice: *maxPrice,
		SortBy:   catalog.SortBy(*sortBy),
	}))

	return nil
}

func (c *commands) product(ctx context.Context, args []string) error {
	id, err := argUUID(args, 0)
	if err != nil {
		return err
	}

	p, err := c.client.API.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	c.printProduct(p)

	return nil
}

// scan resolves the text decoded from a product share code.
func (c *commands) scan(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: scan <code>")
	}

	p, err := c.client.API.ResolveProduct(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "ID: %s\n", p.ID)
	c.printProduct(p)

	return nil
}

func (c *commands) printProduct(p *entity.Product) {
	fmt.Fprintf(c.out, "%s\n%s\n\nPrice: %.2f\nCategory: %s\nIn stock: %t\nSustainability: %d/100\nImpact: %s\n",
		p.Name, p.Description, p.Price, p.Category, p.InStock, p.SustainabilityScore, p.CommunityImpact)
}

func (c *commands) qrcode(ctx context.Context, args []string) error {
	id, err := argUUID(args, 0)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("usage: qrcode <id> <out.png>")
	}

	png, err := c.client.API.ProductQRCode(ctx, id)
	if err != nil {
		return err
	}

	return errors.WithStack(os.WriteFile(args[1], png, 0o644))
}

func (c *commands) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: login <email> <password>")
	}

	user, err := c.client.Session.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "signed in as %s (%s)\n", user.Name, user.Role)

	return nil
}

func (c *commands) register(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: register <name> <email> <password>")
	}

	user, err := c.client.Session.Register(ctx, args[0], args[1], args[2])
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "welcome, %s\n", user.Name)

	return nil
}

func (c *commands) whoami() error {
	user := c.client.Session.User()
	if user == nil {
		fmt.Fprintln(c.out, "anonymous")

		return nil
	}

	fmt.Fprintf(c.out, "%s <%s> role=%s\n", user.Name, user.Email, user.Role)

	return nil
}

func (c *commands) cart(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}
	cart := c.client.Cart

	switch sub {
	case "show":
	case "add":
		if err := c.requireSession(); err != nil {
			return err
		}
		p, err := c.lookup(ctx, args, 1)
		if err != nil {
			return err
		}
		qty := 1
		if len(args) > 2 {
			if qty, err = strconv.Atoi(args[2]); err != nil {
				return errors.Wrap(err, "quantity")
			}
		}
		cart.Add(ctx, p, qty)
	case "rm":
		id, err := argUUID(args, 1)
		if err != nil {
			return err
		}
		cart.Remove(ctx, id)
	case "set":
		id, err := argUUID(args, 1)
		if err != nil {
			return err
		}
		if len(args) < 3 {
			return errors.New("usage: cart set <id> <qty>")
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return errors.Wrap(err, "quantity")
		}
		cart.UpdateQuantity(ctx, id, qty)
	case "clear":
		cart.Clear(ctx)
	default:
		return errors.Errorf("unknown cart command %q", sub)
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tSUBTOTAL")
	for _, l := range cart.Lines() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\n", l.Product.ID, l.Product.Name, l.Quantity, l.Subtotal())
	}
	fmt.Fprintf(tw, "\t\t%d\t%.2f\n", cart.TotalItems(), cart.TotalPrice())

	return errors.WithStack(tw.Flush())
}

func (c *commands) wishlist(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}
	wishlist := c.client.Wishlist

	switch sub {
	case "show":
	case "add":
		if err := c.requireSession(); err != nil {
			return err
		}
		p, err := c.lookup(ctx, args, 1)
		if err != nil {
			return err
		}
		wishlist.Add(ctx, p)
	case "rm":
		id, err := argUUID(args, 1)
		if err != nil {
			return err
		}
		wishlist.Remove(ctx, id)
	case "clear":
		wishlist.Clear(ctx)
	case "sync":
		if err := c.client.SyncWishlist(ctx); err != nil {
			return err
		}
	default:
		return errors.Errorf("unknown wishlist command %q", sub)
	}

	c.printProducts(wishlist.Items())

	return nil
}

func (c *commands) checkout(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("checkout", flag.ContinueOnError)
	var address api.ShippingAddress
	flags.StringVar(&address.Street, "street", "", "street")
	flags.StringVar(&address.City, "city", "", "city")
	flags.StringVar(&address.State, "state", "", "state")
	flags.StringVar(&address.ZipCode, "zip", "", "zip code")
	flags.StringVar(&address.Country, "country", "", "country")
	if err := flags.Parse(args); err != nil {
		return err
	}

	order, err := c.client.Checkout.PlaceOrder(ctx, address)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "order %s placed: %.2f (%s)\n", order.ID, order.TotalAmount, order.Status)

	return nil
}

func (c *commands) orders(ctx context.Context) error {
	orders, err := c.client.Checkout.MyOrders(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tITEMS\tTOTAL\tSTATUS")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%s\n",
			o.ID, o.CreatedAt.Format("2006-01-02"), len(o.Items), o.TotalAmount, o.Status)
	}

	return errors.WithStack(tw.Flush())
}

func (c *commands) upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: upload <file>")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	url, err := c.client.Catalog.UploadImage(ctx, f.Name(), f)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, url)

	return nil
}

// lookup resolves args[i] to a product from the catalog.
// requireSession sends anonymous shoppers to login before they collect items.
func (c *commands) requireSession() error {
	if !c.client.Session.IsAuthenticated() {
		return errors.Wrap(api.ErrNotAuthenticated, "sign in to add items")
	}

	return nil
}

func (c *commands) lookup(ctx context.Context, args []string, i int) (entity.Product, error) {
	id, err := argUUID(args, i)
	if err != nil {
		return entity.Product{}, err
	}
	if err := c.client.Catalog.Load(ctx); err != nil {
		return entity.Product{}, err
	}

	p, ok := c.client.Catalog.Product(id)
	if !ok {
		return entity.Product{}, errors.Errorf("no product %s", id)
	}

	return p, nil
}

func (c *commands) printProducts(products []entity.Product) {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSCORE")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%d\n", p.ID, p.Name, p.Category, p.Price, p.SustainabilityScore)
	}
	_ = tw.Flush()
}

func argUUID(args []string, i int) (uuid.UUID, error) {
	if len(args) <= i {
		return uuid.Nil, errors.New("missing product id")
	}

	id, err := uuid.Parse(args[i])
	if err != nil {
		return uuid.Nil, errors.Wrapf(err, "product id %q", args[i])
	}

	return id, nil
}
