// Package upsell carries a reduced product record across a markup attribute
// so an upsell control can be invoked without a closure over the drawer.
package upsell

import (
	"encoding/json"
	"net/url"
	"strings"

	"buywidget/internal/config"
	"buywidget/internal/domain"
	"github.com/shopspring/decimal"
)

// Record is the minimal purchasable projection of an upsell product.
type Record struct {
	VariantID       string                  `json:"variantId"`
	Title           string                  `json:"title"`
	Image           string                  `json:"image"`
	Price           domain.Money            `json:"price"`
	SelectedOptions []domain.SelectedOption `json:"selectedOptions"`
}

// Encode serializes r to JSON and percent-encodes it the way
// encodeURIComponent does, so the token is safe inside a quoted attribute.
func Encode(r Record) string {
	if r.SelectedOptions == nil {
		r.SelectedOptions = []domain.SelectedOption{}
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return ""
	}
	return strings.ReplaceAll(url.QueryEscape(string(raw)), "+", "%20")
}

// Decode reverses Encode. The token may already have been percent-decoded
// once upstream, so a direct parse is attempted first.
func Decode(token string) (Record, bool) {
	if token == "" {
		return Record{}, false
	}
	r, err := parse(token)
	if err != nil {
		unescaped, uerr := url.PathUnescape(token)
		if uerr != nil {
			return Record{}, false
		}
		if r, err = parse(unescaped); err != nil {
			return Record{}, false
		}
	}
	if r.VariantID == "" {
		return Record{}, false
	}
	return r, true
}

func parse(s string) (Record, error) {
	var r Record
	err := json.Unmarshal([]byte(s), &r)
	return r, err
}

// CartItem normalizes the record into a cart line with quantity 1.
func (r Record) CartItem() domain.CartItem {
	title := r.Title
	if title == "" {
		title = "Product"
	}
	variantTitle := domain.JoinOptionValues(r.SelectedOptions)
	if variantTitle == "" {
		variantTitle = "Default"
	}
	opts := r.SelectedOptions
	if opts == nil {
		opts = []domain.SelectedOption{}
	}
	return domain.CartItem{
		VariantID:       r.VariantID,
		ProductTitle:    title,
		VariantTitle:    variantTitle,
		Image:           r.Image,
		Price:           r.Price,
		Quantity:        1,
		SelectedOptions: opts,
	}
}

var fallbackPrice = domain.Money{Amount: decimal.RequireFromString("0.00"), CurrencyCode: domain.DefaultCurrency}

// Resolve projects a configured upsell onto a Record using its first
// variant. ok is false when the product has no sellable variant.
func Resolve(u config.UpsellConfig) (Record, bool) {
	p := u.Product
	if len(p.Variants.Edges) == 0 || p.Variants.Edges[0].Node == nil {
		return Record{}, false
	}
	node := p.Variants.Edges[0].Node

	image := u.CustomImage
	if image == "" && len(p.Images.Edges) > 0 {
		image = p.Images.Edges[0].Node.URL
	}
	title := u.CustomTitle
	if title == "" {
		title = p.Title
	}
	if title == "" {
		title = "Product"
	}

	price := fallbackPrice
	switch {
	case node.Price != nil:
		price = node.Price.Money()
	case p.Price != nil:
		price = p.Price.Money()
	}

	return Record{
		VariantID:       node.ID,
		Title:           title,
		Image:           image,
		Price:           price,
		SelectedOptions: config.Options(node.SelectedOptions),
	}, true
}
