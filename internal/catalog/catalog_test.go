package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"buywidget/internal/config"
	"buywidget/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

const catalogCSV = `key,title,image,variant.id,variant.title,variant.price.amount,variant.price.currencyCode,variant.options
mug,Mug,https://example.com/mug.png,gid://shopify/ProductVariant/1,Small,10.00,USD,Size:S
,,,gid://shopify/ProductVariant/2,Large,12.50,USD,Size:L;Color: Blue
,,,,,,,
poster,Poster,,gid://shopify/ProductVariant/9,,5,EUR,`

func TestCSVImporter_Run(t *testing.T) {
	repo := &stubProductRepo{}
	count, err := NewCSVImporter(strings.NewReader(catalogCSV), repo).Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 || len(repo.items) != 2 {
		t.Fatalf("expected 2 products, got count=%d saved=%d", count, len(repo.items))
	}

	mug := repo.items[0]
	if mug.Key != "mug" || mug.Title != "Mug" || len(mug.Variants) != 2 {
		t.Fatalf("unexpected mug %+v", mug)
	}
	large := mug.Variants[1]
	if large.ID != "gid://shopify/ProductVariant/2" || large.Price.Amount.StringFixed(2) != "12.50" || large.Price.CurrencyCode != "USD" {
		t.Fatalf("unexpected variant %+v", large)
	}
	if len(large.SelectedOptions) != 2 || large.SelectedOptions[1].Value != "Blue" {
		t.Fatalf("unexpected options %+v", large.SelectedOptions)
	}
	if poster := repo.items[1]; len(poster.Variants) != 1 || poster.Variants[0].Price.CurrencyCode != "EUR" || len(poster.Variants[0].SelectedOptions) != 0 {
		t.Fatalf("unexpected poster %+v", poster)
	}
}

func TestCSVImporter_RejectsIncompleteProduct(t *testing.T) {
	csvData := `key,title,variant.id
mug,Mug,`
	_, err := NewCSVImporter(strings.NewReader(csvData), &stubProductRepo{}).Run(context.Background())
	if err == nil {
		t.Fatalf("expected error for product without variants")
	}
}

func TestCatalogBind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.csv")
	if err := os.WriteFile(path, []byte(catalogCSV), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	c, err := LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 products, got %d", c.Len())
	}

	cfg, err := c.Bind(config.WidgetEntry{ContainerID: "buy-1", ProductKey: "mug", Config: config.Widget{Domain: "shop.example.com"}})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if cfg.Domain != "shop.example.com" || cfg.Product.Title != "Mug" || len(cfg.Product.Variants) != 2 {
		t.Fatalf("unexpected bound config %+v", cfg)
	}
	if got := cfg.Product.DomainProduct().Variants[0].Price.Amount.StringFixed(2); got != "10.00" {
		t.Fatalf("expected price round trip, got %s", got)
	}

	inline := config.Widget{Product: config.ProductConfig{Title: "Inline"}}
	cfg, err = c.Bind(config.WidgetEntry{Config: inline})
	if err != nil || cfg.Product.Title != "Inline" {
		t.Fatalf("expected inline product untouched, got %+v err=%v", cfg.Product, err)
	}

	if _, err := c.Bind(config.WidgetEntry{ProductKey: "missing"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
