package widget

import (
	"context"
	"html/template"
	"io"
	"strconv"
	"time"

	"buywidget/internal/checkout"
	"buywidget/internal/config"
	"buywidget/internal/domain"
	cartsvc "buywidget/internal/service/cart"
	"buywidget/internal/upsell"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	ActionIncrease = "increase"
	ActionDecrease = "decrease"

	upsellFeedback = 800 * time.Millisecond
)

// DrawerHandle is what a button holds on to. Only the handle returned by
// the first EnsureDrawer call refreshes.
type DrawerHandle interface {
	Refresh(ctx context.Context)
	Open()
	Close()
}

type inertDrawer struct {
	drawer *Drawer
}

func (inertDrawer) Refresh(context.Context) {}
func (h inertDrawer) Open()                 { h.drawer.Open() }
func (h inertDrawer) Close()                { h.drawer.Close() }

// ItemRow is one rendered cart line. Index is positional and valid until
// the next write.
type ItemRow struct {
	Index     int
	Image     string
	Title     string
	Variant   string
	Quantity  int
	LinePrice string
}

// Offer is one rendered upsell. Token is the codec payload for the
// detached path; Add is the in-process path.
type Offer struct {
	ID         string
	Record     upsell.Record
	Token      string
	Price      string
	ButtonBg   string
	ButtonText string
	Add        func(ctx context.Context)
}

type Drawer struct {
	cfg      config.Widget
	store    *cartsvc.Store
	orch     *checkout.Orchestrator
	control  *checkout.Control
	logger   *zap.Logger
	offers   []Offer
	feedback map[string]time.Time
	now      func() time.Time

	open  bool
	empty bool
	rows  []ItemRow
	total string
}

func newDrawer(cfg config.Widget, store *cartsvc.Store, orch *checkout.Orchestrator, logger *zap.Logger) *Drawer {
	d := &Drawer{
		cfg:      cfg,
		store:    store,
		orch:     orch,
		control:  checkout.NewControl(cfg.Cart.Checkout, cfg.Cart.Processing),
		logger:   logger,
		feedback: make(map[string]time.Time),
		now:      time.Now,
	}
	d.offers = d.buildOffers()
	return d
}

func (d *Drawer) buildOffers() []Offer {
	var offers []Offer
	for i, u := range d.cfg.Upsells {
		rec, ok := upsell.Resolve(u)
		if !ok {
			continue
		}
		id := "upsell-" + strconv.Itoa(i)
		offers = append(offers, Offer{
			ID:         id,
			Record:     rec,
			Token:      upsell.Encode(rec),
			Price:      domain.FormatPrice(rec.Price.Amount, rec.Price.CurrencyCode),
			ButtonBg:   u.ButtonBgColor,
			ButtonText: u.ButtonTextColor,
			Add:        func(ctx context.Context) { d.AddUpsell(ctx, id, rec) },
		})
	}
	return offers
}

// Refresh rebuilds rows and total from the persisted cart. The displayed
// currency is that of the last item iterated; mixed-currency carts are
// summed without conversion.
func (d *Drawer) Refresh(ctx context.Context) {
	cart := d.store.Read(ctx)
	d.rows = d.rows[:0]
	if cart.IsEmpty() {
		d.empty = true
		d.total = domain.FormatPrice(decimal.Zero, d.cfg.Cart.CurrencyCode)
		return
	}
	d.empty = false

	total := decimal.Zero
	currency := d.cfg.Cart.CurrencyCode
	for i, item := range cart.Items {
		line := item.LineTotal()
		total = total.Add(line)
		if item.Price.CurrencyCode != "" {
			currency = item.Price.CurrencyCode
		}
		d.rows = append(d.rows, ItemRow{
			Index:     i,
			Image:     item.Image,
			Title:     item.ProductTitle,
			Variant:   item.VariantSummary(),
			Quantity:  item.Quantity,
			LinePrice: domain.FormatPrice(line, currency),
		})
	}
	d.total = domain.FormatPrice(total, currency)
}

func (d *Drawer) UpdateQuantity(ctx context.Context, index int, action string) {
	switch action {
	case ActionIncrease:
		d.store.SetQuantityDelta(ctx, index, +1)
	case ActionDecrease:
		d.store.SetQuantityDelta(ctx, index, -1)
	default:
		d.logger.Debug("unknown quantity action", zap.String("action", action))
	}
}

func (d *Drawer) RemoveItem(ctx context.Context, index int) {
	d.store.RemoveAt(ctx, index)
}

// AddUpsell adds rec and, when origin names one of the drawer's offers,
// flags it for the checkmark feedback.
func (d *Drawer) AddUpsell(ctx context.Context, origin string, rec upsell.Record) {
	d.store.AddOrIncrement(ctx, rec.CartItem())
	if d.hasOffer(origin) {
		d.feedback[origin] = d.now().Add(upsellFeedback)
	}
}

func (d *Drawer) hasOffer(id string) bool {
	for _, o := range d.offers {
		if o.ID == id {
			return true
		}
	}
	return false
}

func (d *Drawer) Open()  { d.open = true }
func (d *Drawer) Close() { d.open = false }

func (d *Drawer) IsOpen() bool { return d.open }

// HandleCheckout must be called outside the registry loop.
func (d *Drawer) HandleCheckout(ctx context.Context) {
	d.orch.Checkout(ctx, d.control)
}

func (d *Drawer) Control() checkout.Control { return *d.control }

func (d *Drawer) Total() string { return d.total }

func (d *Drawer) Rows() []ItemRow { return append([]ItemRow(nil), d.rows...) }

func (d *Drawer) IsEmpty() bool { return d.empty }

func (d *Drawer) Offers() []Offer { return append([]Offer(nil), d.offers...) }

type offerView struct {
	Offer
	Added bool
	Style template.CSS
}

type drawerView struct {
	Cfg           config.Widget
	Open          bool
	Empty         bool
	Rows          []ItemRow
	Total         string
	Offers        []offerView
	UpsellsBefore bool
	Control       checkout.Control
}

func (d *Drawer) Render(w io.Writer) error {
	now := d.now()
	view := drawerView{
		Cfg:           d.cfg,
		Open:          d.open,
		Empty:         d.empty,
		Rows:          d.rows,
		Total:         d.total,
		UpsellsBefore: d.cfg.UpsellPosition == config.UpsellBeforeItems,
		Control:       *d.control,
	}
	for id, until := range d.feedback {
		if !now.Before(until) {
			delete(d.feedback, id)
		}
	}
	// Upsells only accompany a non-empty cart.
	if !d.empty {
		for _, o := range d.offers {
			added := now.Before(d.feedback[o.ID])
			decls := []decl{{"background", o.ButtonBg}, {"color", o.ButtonText}}
			if added {
				decls = append(decls, decl{"opacity", "0.7"})
			}
			view.Offers = append(view.Offers, offerView{Offer: o, Added: added, Style: inlineStyle(decls...)})
		}
	}
	return templates.ExecuteTemplate(w, "drawer", view)
}
