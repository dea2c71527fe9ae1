package upsell

import (
	"net/url"
	"strings"
	"testing"

	"buywidget/internal/config"
	"buywidget/internal/domain"
	"github.com/shopspring/decimal"
)

func sampleRecord() Record {
	return Record{
		VariantID: "gid://shopify/ProductVariant/42",
		Title:     `Tea & "Biscuits" 50% off`,
		Image:     "https://cdn.example.com/img?a=1&b=2",
		Price:     domain.Money{Amount: decimal.RequireFromString("4.50"), CurrencyCode: "EUR"},
		SelectedOptions: []domain.SelectedOption{
			{Name: "Size", Value: "Large box"},
			{Name: "Flavor", Value: "Earl Grey"},
		},
	}
}

func assertSameRecord(t *testing.T, got, want Record) {
	t.Helper()
	if got.VariantID != want.VariantID || got.Title != want.Title || got.Image != want.Image {
		t.Fatalf("record mismatch: got %+v want %+v", got, want)
	}
	if !got.Price.Amount.Equal(want.Price.Amount) || got.Price.CurrencyCode != want.Price.CurrencyCode {
		t.Fatalf("price mismatch: got %+v want %+v", got.Price, want.Price)
	}
	if len(got.SelectedOptions) != len(want.SelectedOptions) {
		t.Fatalf("options mismatch: got %+v want %+v", got.SelectedOptions, want.SelectedOptions)
	}
	for i := range got.SelectedOptions {
		if got.SelectedOptions[i] != want.SelectedOptions[i] {
			t.Fatalf("option %d mismatch: got %+v want %+v", i, got.SelectedOptions[i], want.SelectedOptions[i])
		}
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	want := sampleRecord()
	token := Encode(want)
	if strings.ContainsAny(token, ` "'<>+`) {
		t.Fatalf("token not attribute safe: %s", token)
	}
	got, ok := Decode(token)
	if !ok {
		t.Fatalf("decode failed for %s", token)
	}
	assertSameRecord(t, got, want)
}

func TestDecode_ToleratesUpstreamDecoding(t *testing.T) {
	want := sampleRecord()
	once, err := url.PathUnescape(Encode(want))
	if err != nil {
		t.Fatalf("unescape: %v", err)
	}
	got, ok := Decode(once)
	if !ok {
		t.Fatalf("decode failed for pre-decoded token %s", once)
	}
	assertSameRecord(t, got, want)
}

func TestDecode_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"garbage":      "%%%not-a-token",
		"not json":     url.QueryEscape("hello"),
		"no variantId": Encode(Record{Title: "x"}),
	}
	for name, token := range cases {
		if _, ok := Decode(token); ok {
			t.Fatalf("%s: expected decode failure", name)
		}
	}
}

func TestRecordCartItem(t *testing.T) {
	it := sampleRecord().CartItem()
	if it.VariantTitle != "Large box / Earl Grey" || it.Quantity != 1 || it.ProductTitle != sampleRecord().Title {
		t.Fatalf("unexpected cart item %+v", it)
	}
	bare := Record{VariantID: "v"}.CartItem()
	if bare.VariantTitle != "Default" || bare.ProductTitle != "Product" || bare.SelectedOptions == nil {
		t.Fatalf("unexpected defaults %+v", bare)
	}
}

func TestResolve(t *testing.T) {
	u := config.UpsellConfig{
		Product: config.UpsellProduct{
			Title:  "Spoon",
			Images: config.ImageConnection{Edges: []config.ImageEdge{{Node: config.ImageNode{URL: "https://img/spoon.png"}}}},
			Variants: config.VariantConnection{Edges: []config.VariantEdge{{Node: &config.VariantNode{
				ID:    "sv1",
				Price: &config.MoneyConfig{Amount: "3.00", CurrencyCode: "USD"},
			}}}},
		},
	}
	r, ok := Resolve(u)
	if !ok || r.VariantID != "sv1" || r.Title != "Spoon" || r.Image != "https://img/spoon.png" || r.Price.Amount.String() != "3" {
		t.Fatalf("unexpected record %+v ok=%v", r, ok)
	}

	u.CustomTitle = "Silver spoon"
	u.CustomImage = "https://img/custom.png"
	u.Product.Variants.Edges[0].Node.Price = nil
	r, _ = Resolve(u)
	if r.Title != "Silver spoon" || r.Image != "https://img/custom.png" || !r.Price.Amount.IsZero() || r.Price.CurrencyCode != "USD" {
		t.Fatalf("unexpected overridden record %+v", r)
	}

	if _, ok := Resolve(config.UpsellConfig{Product: config.UpsellProduct{Title: "Nothing"}}); ok {
		t.Fatalf("expected product without variants to be skipped")
	}
}
