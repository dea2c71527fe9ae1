package widget

import (
	"context"
	"html/template"
	"io"

	"buywidget/internal/config"
	cartsvc "buywidget/internal/service/cart"
)

// Badge is the floating indicator of total cart quantity.
type Badge struct {
	cfg     config.Widget
	store   *cartsvc.Store
	drawer  DrawerHandle
	total   int
	visible bool
}

func newBadge(cfg config.Widget, store *cartsvc.Store, drawer DrawerHandle) *Badge {
	return &Badge{cfg: cfg, store: store, drawer: drawer}
}

func (b *Badge) Refresh(ctx context.Context) {
	b.total = b.store.Read(ctx).TotalQuantity()
	b.visible = b.total > 0
}

// Click opens the drawer.
func (b *Badge) Click() {
	if b.drawer != nil {
		b.drawer.Open()
	}
}

func (b *Badge) Total() int    { return b.total }
func (b *Badge) Visible() bool { return b.visible }

func (b *Badge) Render(w io.Writer) error {
	return templates.ExecuteTemplate(w, "badge", struct {
		Total      int
		Style      template.CSS
		CountStyle template.CSS
	}{
		Total:      b.total,
		Style:      inlineStyle(decl{"background-color", b.cfg.FloatingCart.BgColor}, decl{"display", display(b.visible)}),
		CountStyle: inlineStyle(decl{"display", display(b.visible)}),
	})
}
