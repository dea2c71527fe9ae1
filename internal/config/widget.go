package config

import (
	"strconv"

	"buywidget/internal/domain"
)

const (
	UpsellBeforeItems = "before_items"
	UpsellAfterItems  = "after_items"
)

// Widget is the per-button configuration supplied by the host. Call Resolve
// once to obtain a copy with every default filled in; views only ever read
// the resolved value.
type Widget struct {
	Product               ProductConfig      `mapstructure:"product"`
	Button                ButtonConfig       `mapstructure:"button"`
	Cart                  CartConfig         `mapstructure:"cart"`
	FloatingCart          FloatingCartConfig `mapstructure:"floating_cart"`
	Domain                string             `mapstructure:"domain"`
	APIVersion            string             `mapstructure:"api_version"`
	StorefrontAccessToken string             `mapstructure:"storefront_access_token"`
	Upsells               []UpsellConfig     `mapstructure:"upsells"`
	UpsellSectionTitle    string             `mapstructure:"upsell_section_title"`
	UpsellPosition        string             `mapstructure:"upsell_position"`
}

type ProductConfig struct {
	Key      string          `mapstructure:"key"`
	Title    string          `mapstructure:"title"`
	Image    string          `mapstructure:"image"`
	Variants []VariantConfig `mapstructure:"variants"`
}

type VariantConfig struct {
	ID              string         `mapstructure:"id"`
	Title           string         `mapstructure:"title"`
	Price           MoneyConfig    `mapstructure:"price"`
	SelectedOptions []OptionConfig `mapstructure:"selected_options"`
}

type MoneyConfig struct {
	Amount       string `mapstructure:"amount"`
	CurrencyCode string `mapstructure:"currency_code"`
}

type OptionConfig struct {
	Name  string `mapstructure:"name"`
	Value string `mapstructure:"value"`
}

type ButtonConfig struct {
	Text      string `mapstructure:"text"`
	Color     string `mapstructure:"color"`
	TextColor string `mapstructure:"text_color"`
	Radius    int    `mapstructure:"radius"`
	FontSize  int    `mapstructure:"font_size"`
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
	Font      string `mapstructure:"font"`
	Alignment string `mapstructure:"alignment"` // left | center | right
}

type CartConfig struct {
	Title              string `mapstructure:"title"`
	Subtotal           string `mapstructure:"subtotal"`
	Empty              string `mapstructure:"empty"`
	Checkout           string `mapstructure:"checkout"`
	Processing         string `mapstructure:"processing"`
	ShippingNotice     string `mapstructure:"shipping_notice"`
	ShowShippingNotice *bool  `mapstructure:"show_shipping_notice"`
	CurrencyCode       string `mapstructure:"currency_code"`
}

type FloatingCartConfig struct {
	BgColor string `mapstructure:"bg_color"`
}

// UpsellConfig mirrors the storefront product shape (edges/node) hosts
// already have on hand from the Storefront API.
type UpsellConfig struct {
	Product         UpsellProduct `mapstructure:"product"`
	CustomTitle     string        `mapstructure:"custom_title"`
	CustomImage     string        `mapstructure:"custom_image"`
	ButtonBgColor   string        `mapstructure:"button_bg_color"`
	ButtonTextColor string        `mapstructure:"button_text_color"`
}

type UpsellProduct struct {
	Title    string            `mapstructure:"title"`
	Price    *MoneyConfig      `mapstructure:"price"`
	Images   ImageConnection   `mapstructure:"images"`
	Variants VariantConnection `mapstructure:"variants"`
}

type ImageConnection struct {
	Edges []ImageEdge `mapstructure:"edges"`
}

type ImageEdge struct {
	Node ImageNode `mapstructure:"node"`
}

type ImageNode struct {
	URL string `mapstructure:"url"`
}

type VariantConnection struct {
	Edges []VariantEdge `mapstructure:"edges"`
}

type VariantEdge struct {
	Node *VariantNode `mapstructure:"node"`
}

type VariantNode struct {
	ID              string         `mapstructure:"id"`
	Price           *MoneyConfig   `mapstructure:"price"`
	SelectedOptions []OptionConfig `mapstructure:"selected_options"`
}

// Resolve returns a copy of w with all presentation defaults applied.
func (w Widget) Resolve() Widget {
	out := w

	out.Product.Variants = append([]VariantConfig(nil), w.Product.Variants...)
	out.Upsells = make([]UpsellConfig, len(w.Upsells))
	for i, u := range w.Upsells {
		u.ButtonBgColor = orDefault(u.ButtonBgColor, "#000")
		u.ButtonTextColor = orDefault(u.ButtonTextColor, "#fff")
		out.Upsells[i] = u
	}

	b := &out.Button
	b.Text = orDefault(b.Text, "ADD TO CART")
	b.Color = orDefault(b.Color, "#000")
	b.TextColor = orDefault(b.TextColor, "#fff")
	b.Radius = intOrDefault(b.Radius, 6)
	b.FontSize = intOrDefault(b.FontSize, 15)
	b.Width = intOrDefault(b.Width, 320)
	b.Height = intOrDefault(b.Height, 48)
	b.Font = orDefault(b.Font, "inherit")
	switch b.Alignment {
	case "left", "right", "center":
	default:
		b.Alignment = "center"
	}

	c := &out.Cart
	c.Title = orDefault(c.Title, "Cart")
	c.Subtotal = orDefault(c.Subtotal, "SUBTOTAL")
	c.Empty = orDefault(c.Empty, "Your cart is empty")
	c.Checkout = orDefault(c.Checkout, "Checkout")
	c.Processing = orDefault(c.Processing, "Processing...")
	c.ShippingNotice = orDefault(c.ShippingNotice, "Shipping and taxes calculated at checkout")
	if c.ShowShippingNotice == nil {
		show := true
		c.ShowShippingNotice = &show
	} else {
		show := *c.ShowShippingNotice
		c.ShowShippingNotice = &show
	}
	c.CurrencyCode = orDefault(c.CurrencyCode, domain.DefaultCurrency)

	out.FloatingCart.BgColor = orDefault(out.FloatingCart.BgColor, "#282525")
	out.UpsellSectionTitle = orDefault(out.UpsellSectionTitle, "Frequently bought together")
	if out.UpsellPosition != UpsellBeforeItems {
		out.UpsellPosition = UpsellAfterItems
	}
	return out
}

// ShippingNoticeVisible reports whether the drawer footer shows the notice.
func (c CartConfig) ShippingNoticeVisible() bool {
	return c.ShowShippingNotice == nil || *c.ShowShippingNotice
}

// DomainProduct converts the configured product to its domain form.
func (p ProductConfig) DomainProduct() domain.Product {
	out := domain.Product{
		Key:      p.Key,
		Title:    p.Title,
		Image:    p.Image,
		Variants: make([]domain.Variant, 0, len(p.Variants)),
	}
	for _, v := range p.Variants {
		out.Variants = append(out.Variants, domain.Variant{
			ID:              v.ID,
			Title:           v.Title,
			Price:           v.Price.Money(),
			SelectedOptions: Options(v.SelectedOptions),
		})
	}
	return out
}

// FromDomainProduct is the inverse of DomainProduct, used when a widget
// takes its product from the catalog.
func FromDomainProduct(p domain.Product) ProductConfig {
	out := ProductConfig{Key: p.Key, Title: p.Title, Image: p.Image}
	for _, v := range p.Variants {
		opts := make([]OptionConfig, 0, len(v.SelectedOptions))
		for _, o := range v.SelectedOptions {
			opts = append(opts, OptionConfig{Name: o.Name, Value: o.Value})
		}
		out.Variants = append(out.Variants, VariantConfig{
			ID:              v.ID,
			Title:           v.Title,
			Price:           MoneyConfig{Amount: v.Price.Amount.String(), CurrencyCode: v.Price.CurrencyCode},
			SelectedOptions: opts,
		})
	}
	return out
}

func (m MoneyConfig) Money() domain.Money {
	return domain.Money{Amount: domain.ParseAmount(m.Amount), CurrencyCode: m.CurrencyCode}
}

func Options(opts []OptionConfig) []domain.SelectedOption {
	out := make([]domain.SelectedOption, 0, len(opts))
	for _, o := range opts {
		out = append(out, domain.SelectedOption{Name: o.Name, Value: o.Value})
	}
	return out
}

// VariantLabel is the selector text for variant i.
func (p ProductConfig) VariantLabel(i int) string {
	if i < len(p.Variants) && p.Variants[i].Title != "" {
		return p.Variants[i].Title
	}
	return "Variant " + strconv.Itoa(i+1)
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func intOrDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
