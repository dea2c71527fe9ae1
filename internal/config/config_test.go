package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
server:
  addr: ":9090"
storage:
  backend: redis
checkout:
  timeout: 15s
page:
  containers: ["buy-1", "buy-2"]
widgets:
  - container_id: buy-1
    config:
      domain: shop.example.com
      api_version: "2024-01"
      storefront_access_token: tok
      product:
        title: Mug
        variants:
          - id: gid://shopify/ProductVariant/1
            title: Blue
            price:
              amount: 10.00
              currency_code: USD
      upsell_position: before_items
`

func TestLoad_FileAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Storage.Backend != "redis" {
		t.Fatalf("unexpected server/storage config %+v %+v", cfg.Server, cfg.Storage)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected default shutdown timeout, got %s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Checkout.Timeout != 15*time.Second {
		t.Fatalf("expected checkout timeout 15s, got %s", cfg.Checkout.Timeout)
	}
	if len(cfg.Page.Containers) != 2 || len(cfg.Widgets) != 1 {
		t.Fatalf("unexpected page/widgets %+v %+v", cfg.Page, cfg.Widgets)
	}
	w := cfg.Widgets[0]
	if w.ContainerID != "buy-1" || w.Config.Domain != "shop.example.com" || w.Config.APIVersion != "2024-01" {
		t.Fatalf("unexpected widget entry %+v", w)
	}
	if len(w.Config.Product.Variants) != 1 || w.Config.Product.Variants[0].Price.Amount != "10" && w.Config.Product.Variants[0].Price.Amount != "10.00" {
		t.Fatalf("unexpected variants %+v", w.Config.Product.Variants)
	}
	if w.Config.UpsellPosition != UpsellBeforeItems {
		t.Fatalf("expected before_items, got %q", w.Config.UpsellPosition)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Backend != "postgres" {
		t.Fatalf("expected env override, got %q", cfg.Storage.Backend)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Server.Addr)
	}
}

func TestWidgetResolve_Defaults(t *testing.T) {
	r := Widget{UpsellPosition: "sideways", Upsells: []UpsellConfig{{}}}.Resolve()
	if r.Button.Text != "ADD TO CART" || r.Button.Width != 320 || r.Button.Alignment != "center" {
		t.Fatalf("unexpected button defaults %+v", r.Button)
	}
	if r.Cart.Title != "Cart" || r.Cart.Checkout != "Checkout" || r.Cart.Processing != "Processing..." || r.Cart.CurrencyCode != "USD" {
		t.Fatalf("unexpected cart defaults %+v", r.Cart)
	}
	if !r.Cart.ShippingNoticeVisible() {
		t.Fatalf("expected shipping notice visible by default")
	}
	if r.UpsellPosition != UpsellAfterItems {
		t.Fatalf("expected after_items fallback, got %q", r.UpsellPosition)
	}
	if r.Upsells[0].ButtonBgColor != "#000" || r.Upsells[0].ButtonTextColor != "#fff" {
		t.Fatalf("unexpected upsell colors %+v", r.Upsells[0])
	}
	if r.FloatingCart.BgColor != "#282525" {
		t.Fatalf("unexpected floating cart color %q", r.FloatingCart.BgColor)
	}
}

func TestWidgetResolve_DoesNotAliasInput(t *testing.T) {
	hide := false
	in := Widget{
		Cart:    CartConfig{ShowShippingNotice: &hide},
		Upsells: []UpsellConfig{{CustomTitle: "A"}},
	}
	r := in.Resolve()
	hide = true
	r.Upsells[0].CustomTitle = "B"
	if r.Cart.ShippingNoticeVisible() {
		t.Fatalf("resolved config changed with input")
	}
	if in.Upsells[0].CustomTitle != "A" {
		t.Fatalf("input upsells mutated through resolved copy")
	}
}

func TestProductConversionRoundTrip(t *testing.T) {
	pc := ProductConfig{
		Key:   "mug",
		Title: "Mug",
		Variants: []VariantConfig{{
			ID:              "v1",
			Title:           "Blue",
			Price:           MoneyConfig{Amount: "12.50", CurrencyCode: "EUR"},
			SelectedOptions: []OptionConfig{{Name: "Color", Value: "Blue"}},
		}},
	}
	p := pc.DomainProduct()
	if len(p.Variants) != 1 || p.Variants[0].Price.Amount.String() != "12.5" || p.Variants[0].SelectedOptions[0].Value != "Blue" {
		t.Fatalf("unexpected domain product %+v", p)
	}
	back := FromDomainProduct(p)
	if back.Variants[0].ID != "v1" || back.Variants[0].Price.CurrencyCode != "EUR" {
		t.Fatalf("unexpected round trip %+v", back)
	}
	if pc.VariantLabel(0) != "Blue" || pc.VariantLabel(3) != "Variant 4" {
		t.Fatalf("unexpected variant labels")
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LogConfig{Level: "debug", Format: "json"})
	if err != nil {
		t.Fatalf("json logger: %v", err)
	}
	if !logger.Core().Enabled(-1) {
		t.Fatalf("expected debug level enabled")
	}
	if _, err := NewLogger(LogConfig{Level: "loud"}); err == nil {
		t.Fatalf("expected invalid level to fail")
	}
}
