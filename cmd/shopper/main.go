// Command shopper is a terminal storefront client. Cart, wishlist and
// session live in a local state directory between runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"

	"storefront/config"
	"storefront/internal/client"
	"storefront/internal/client/api"
	"storefront/internal/client/session"
	logs "storefront/internal/infra/log"

	"github.com/pkg/errors"
)

const usage = `usage: shopper [flags] <command> [args]

commands:
  products [-search s] [-category c] [-max-price p] [-sort name|price-low|price-high|sustainability]
  product <id>
  qrcode <id> <out.png>
  scan <code>
  login <email> <password>
  register <name> <email> <password>
  logout
  whoami
  cart show | add <id> [qty] | rm <id> | set <id> <qty> | clear
  wishlist show | add <id> | rm <id> | clear | sync
  checkout -street s -city c -state s -zip z -country c
  orders
  upload <file>
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, api.ErrNotAuthenticated) {
			fmt.Fprintln(os.Stderr, "sign in with: shopper login <email> <password>")
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	flags := flag.NewFlagSet("shopper", flag.ContinueOnError)
	flags.Usage = func() { fmt.Fprint(flags.Output(), usage); flags.PrintDefaults() }
	configDir := flags.String("config", "config", "directory holding shopper.yaml")
	apiURL := flags.String("api", "", "API base URL, overrides api.baseUrl")
	stateURL := flags.String("state", "", "state bucket URL, overrides stateUrl")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()

		return errors.New("missing command")
	}

	cfg, err := loadConfig(*configDir)
	if err != nil {
		return err
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}
	if *stateURL != "" {
		cfg.StateURL = *stateURL
	}

	logger, err := logs.NewWithWriter(os.Stderr, cfg.Log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := client.Options{
		BaseURL:    cfg.API.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
	}
	if b := cfg.BootstrapAdmin; b != nil && b.Email != "" {
		opts.BootstrapAdmin = &session.Credentials{Email: b.Email, Password: b.Password}
	}

	c, err := client.Open(ctx, cfg.StateURL, opts, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	cmd := &commands{client: c, out: out}

	return cmd.dispatch(ctx, flags.Arg(0), flags.Args()[1:])
}

// loadConfig reads shopper.yaml from dir, or falls back to defaults when
// it does not exist.
func loadConfig(dir string) (*config.ShopperConfig, error) {
	cfg, err := config.LoadWithEnv[config.ShopperConfig]("shopper", dir)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return nil, err
		}
		cfg = new(config.ShopperConfig)
	}

	config.ApplyShopperDefaults(cfg)

	return cfg, nil
}
