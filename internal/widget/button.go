package widget

import (
	"context"
	"html/template"
	"io"

	"buywidget/internal/config"
	"buywidget/internal/domain"
	cartsvc "buywidget/internal/service/cart"
	"go.uber.org/zap"
)

// Selector is the variant choice shown when a product has several variants.
type Selector struct {
	Labels   []string
	Selected int
}

type ButtonView struct {
	containerID string
	cfg         config.Widget
	product     domain.Product
	store       *cartsvc.Store
	ui          UI
	logger      *zap.Logger
	drawer      DrawerHandle
	selector    *Selector
}

// newButtonView renders the button and makes sure the shared drawer and
// badge exist; the first button on a page installs them.
func newButtonView(ctx context.Context, r *Registry, containerID string, cfg config.Widget) *ButtonView {
	b := &ButtonView{
		containerID: containerID,
		cfg:         cfg,
		product:     cfg.Product.DomainProduct(),
		store:       r.store,
		ui:          r.ui,
		logger:      r.logger,
	}
	b.render()
	b.drawer = r.EnsureDrawer(ctx, cfg)
	r.EnsureFloatingBadge(ctx, cfg, b.drawer)
	return b
}

func (b *ButtonView) render() {
	if len(b.product.Variants) <= 1 {
		b.selector = nil
		return
	}
	labels := make([]string, len(b.product.Variants))
	for i := range b.product.Variants {
		labels[i] = b.cfg.Product.VariantLabel(i)
	}
	b.selector = &Selector{Labels: labels}
}

func (b *ButtonView) ContainerID() string { return b.containerID }

func (b *ButtonView) Config() config.Widget { return b.cfg }

func (b *ButtonView) Selector() *Selector { return b.selector }

// Select moves the selector to variant i. Without a selector it is a no-op.
func (b *ButtonView) Select(i int) {
	if b.selector != nil {
		b.selector.Selected = i
	}
}

// SelectedVariant returns nil when the product has no variants, otherwise
// the selector's choice or the first variant.
func (b *ButtonView) SelectedVariant() *domain.Variant {
	variants := b.product.Variants
	if len(variants) == 0 {
		return nil
	}
	if b.selector != nil {
		idx := b.selector.Selected
		if idx >= 0 && idx < len(variants) {
			return &variants[idx]
		}
	}
	return &variants[0]
}

// HandleAddToCart adds the selected variant and opens the drawer.
func (b *ButtonView) HandleAddToCart(ctx context.Context) {
	variant := b.SelectedVariant()
	if variant == nil {
		b.logger.Warn("add to cart without variant", zap.String("container", b.containerID))
		b.ui.Notify("Product variant not available")
		return
	}

	title := b.product.Title
	if title == "" {
		title = "Product"
	}
	variantTitle := variant.Title
	if variantTitle == "" {
		variantTitle = "Default"
	}
	opts := variant.SelectedOptions
	if opts == nil {
		opts = []domain.SelectedOption{}
	}

	b.store.AddOrIncrement(ctx, domain.CartItem{
		VariantID:       variant.ID,
		ProductTitle:    title,
		VariantTitle:    variantTitle,
		Image:           b.product.Image,
		Price:           variant.Price,
		Quantity:        1,
		SelectedOptions: opts,
	})
	b.drawer.Open()
}

func (b *ButtonView) Render(w io.Writer) error {
	bc := b.cfg.Button
	return templates.ExecuteTemplate(w, "button", struct {
		ContainerID string
		Button      config.ButtonConfig
		Selector    *Selector
		FormStyle   template.CSS
		SelectStyle template.CSS
		ButtonStyle template.CSS
	}{
		ContainerID: b.containerID,
		Button:      bc,
		Selector:    b.selector,
		FormStyle: inlineStyle(
			decl{"display", "flex"},
			decl{"flex-direction", "column"},
			decl{"align-items", justify(bc.Alignment)},
		),
		SelectStyle: inlineStyle(decl{"width", px(bc.Width)}),
		ButtonStyle: inlineStyle(
			decl{"background-color", bc.Color},
			decl{"color", bc.TextColor},
			decl{"border-radius", px(bc.Radius)},
			decl{"font-size", px(bc.FontSize)},
			decl{"width", px(bc.Width)},
			decl{"height", px(bc.Height)},
			decl{"font-family", bc.Font},
		),
	})
}
