// cartctl inspects and resets the persisted widget cart of a storage
// backend, and validates product catalog files.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"buywidget/internal/catalog"
	"buywidget/internal/config"
	"buywidget/internal/db"
	"buywidget/internal/domain"
	cartsvc "buywidget/internal/service/cart"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var (
		configPath string
		backend    string
		namespace  string
	)
	flagSet := pflag.NewFlagSet("cartctl", pflag.ContinueOnError)
	flagSet.SetOutput(out)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to the YAML configuration file")
	flagSet.StringVar(&backend, "backend", "", "storage backend override (memory, postgres, redis)")
	flagSet.StringVar(&namespace, "namespace", "", "storage namespace override")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(out, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help || flagSet.NArg() == 0 {
		printHelp(out, flagSet)
		return nil
	}

	rest := flagSet.Args()
	if rest[0] == "catalog" {
		if len(rest) != 2 {
			return fmt.Errorf("usage: cartctl catalog FILE")
		}
		return listCatalog(ctx, rest[1], out)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if backend != "" {
		cfg.Storage.Backend = backend
	}
	if flagSet.Changed("namespace") {
		cfg.Storage.Namespace = namespace
	}

	s, closeStorage, err := db.OpenStorage(ctx, cfg.Storage, zap.NewNop())
	if err != nil {
		return err
	}
	defer closeStorage()
	store := cartsvc.New(s, cfg.Storage.Namespace, zap.NewNop())

	switch rest[0] {
	case "show":
		return showCart(out, store.Key(), store.Read(ctx))
	case "clear":
		store.Clear(ctx)
		fmt.Fprintf(out, "cleared %s\n", store.Key())
		return nil
	default:
		return fmt.Errorf("unknown command %q", rest[0])
	}
}

func showCart(out io.Writer, key string, cart domain.Cart) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cart); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %d lines, %d units\n", key, len(cart.Items), cart.TotalQuantity())
	return nil
}

func listCatalog(ctx context.Context, path string, out io.Writer) error {
	c, err := catalog.LoadFile(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d products\n", c.Len())
	for _, key := range c.Keys() {
		p, _ := c.Get(key)
		fmt.Fprintf(out, "%s\t%s\t%d variants\n", p.Key, p.Title, len(p.Variants))
	}
	return nil
}

func printHelp(out io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintln(out, "usage: cartctl [flags] show|clear")
	fmt.Fprintln(out, "       cartctl catalog FILE")
	fmt.Fprintln(out)
	flagSet.PrintDefaults()
}
