package widget

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"buywidget/internal/checkout"
	"buywidget/internal/config"
	"buywidget/internal/domain"
	cartsvc "buywidget/internal/service/cart"
	"buywidget/internal/upsell"
	"go.uber.org/zap"
)

// Observer re-renders from the persisted cart when told to.
type Observer interface {
	Refresh(ctx context.Context)
}

// Extension customizes a freshly initialized button. Errors and panics are
// logged and never abort initialization.
type Extension func(reg *Registry, button *ButtonView, cfg config.Widget) error

type InitOption func(*initOptions)

type initOptions struct {
	extension Extension
}

func WithExtension(ext Extension) InitOption {
	return func(o *initOptions) { o.extension = ext }
}

type observerEntry struct {
	id       int
	observer Observer
}

// Registry owns every view on a page: one button per container, and at most
// one drawer and one badge. It is also the cooperative event loop: all
// exported entry points serialize through it, and view methods assume they
// run inside Do.
type Registry struct {
	loop     sync.Mutex
	store    *cartsvc.Store
	doc      Document
	ui       UI
	sessions checkout.SessionCreator
	timeout  time.Duration
	logger   *zap.Logger

	buttons   map[string]*ButtonView
	order     []string
	drawer    *Drawer
	badge     *Badge
	observers []observerEntry
	nextObsID int
}

type Options struct {
	Sessions        checkout.SessionCreator
	CheckoutTimeout time.Duration
}

// NewRegistry adopts store: every store write now broadcasts through the
// registry.
func NewRegistry(store *cartsvc.Store, doc Document, ui UI, opts Options, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ui == nil {
		ui = nopUI{}
	}
	if opts.Sessions == nil {
		opts.Sessions = checkout.NewClient(nil)
	}
	r := &Registry{
		store:    store,
		doc:      doc,
		ui:       ui,
		sessions: opts.Sessions,
		timeout:  opts.CheckoutTimeout,
		logger:   logger,
		buttons:  make(map[string]*ButtonView),
	}
	store.SetNotifier(r)
	return r
}

// Do runs fn as one UI event.
func (r *Registry) Do(fn func()) {
	r.loop.Lock()
	defer r.loop.Unlock()
	fn()
}

// Init registers a button for containerID. Missing arguments, a duplicate
// container or an absent host element reject the call; the rejection is
// logged and returned.
func (r *Registry) Init(ctx context.Context, containerID string, cfg *config.Widget, opts ...InitOption) (*ButtonView, error) {
	var o initOptions
	for _, opt := range opts {
		opt(&o)
	}

	var (
		button   *ButtonView
		resolved config.Widget
		err      error
	)
	r.Do(func() {
		switch {
		case containerID == "" || cfg == nil:
			err = domain.ErrMissingConfig
			r.logger.Error("init rejected", zap.String("container", containerID), zap.Error(err))
			return
		case r.buttons[containerID] != nil:
			err = fmt.Errorf("%w: %s", domain.ErrDuplicateContainer, containerID)
			r.logger.Warn("init rejected", zap.String("container", containerID), zap.Error(err))
			return
		case r.doc == nil || !r.doc.HasElement(containerID):
			err = fmt.Errorf("%w: %s", domain.ErrContainerMissing, containerID)
			r.logger.Warn("init rejected", zap.String("container", containerID), zap.Error(err))
			return
		}
		resolved = cfg.Resolve()
		button = newButtonView(ctx, r, containerID, resolved)
		r.buttons[containerID] = button
		r.order = append(r.order, containerID)
		r.logger.Info("button initialized", zap.String("container", containerID), zap.Int("variants", len(resolved.Product.Variants)))
	})
	if err != nil {
		return nil, err
	}

	if o.extension != nil {
		r.runExtension(o.extension, button, resolved)
	}
	return button, nil
}

func (r *Registry) runExtension(ext Extension, button *ButtonView, cfg config.Widget) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("customization extension panicked", zap.String("container", button.ContainerID()), zap.Any("panic", rec))
		}
	}()
	if err := ext(r, button, cfg); err != nil {
		r.logger.Warn("customization extension error", zap.String("container", button.ContainerID()), zap.Error(err))
	}
}

// EnsureDrawer returns a live handle the first time and an inert one
// afterwards. Only the first handle refreshes; every handle opens and
// closes the shared surface.
func (r *Registry) EnsureDrawer(ctx context.Context, cfg config.Widget) DrawerHandle {
	if r.drawer != nil {
		return inertDrawer{drawer: r.drawer}
	}
	orch := checkout.NewOrchestrator(r.store, r.sessions, r.ui, r, checkout.Options{
		Endpoint: checkout.Endpoint{
			Domain:      cfg.Domain,
			APIVersion:  cfg.APIVersion,
			AccessToken: cfg.StorefrontAccessToken,
		},
		Timeout: r.timeout,
	}, r.logger)
	r.drawer = newDrawer(cfg, r.store, orch, r.logger)
	r.Subscribe(r.drawer)
	r.drawer.Refresh(ctx)
	return r.drawer
}

// EnsureFloatingBadge installs the badge once.
func (r *Registry) EnsureFloatingBadge(ctx context.Context, cfg config.Widget, drawer DrawerHandle) *Badge {
	if r.badge != nil {
		return r.badge
	}
	r.badge = newBadge(cfg, r.store, drawer)
	r.Subscribe(r.badge)
	r.badge.Refresh(ctx)
	return r.badge
}

// Subscribe adds o to the broadcast list and returns its removal.
func (r *Registry) Subscribe(o Observer) (unsubscribe func()) {
	r.nextObsID++
	id := r.nextObsID
	r.observers = append(r.observers, observerEntry{id: id, observer: o})
	return func() {
		for i, e := range r.observers {
			if e.id == id {
				r.observers = append(r.observers[:i], r.observers[i+1:]...)
				return
			}
		}
	}
}

// Broadcast refreshes every observer in subscription order. The store
// calls it after each write.
func (r *Registry) Broadcast(ctx context.Context) {
	for _, e := range append([]observerEntry(nil), r.observers...) {
		e.observer.Refresh(ctx)
	}
}

// Lookups enter the loop themselves; call them from outside Do.

func (r *Registry) Button(containerID string) *ButtonView {
	var b *ButtonView
	r.Do(func() { b = r.buttons[containerID] })
	return b
}

// Buttons lists buttons in initialization order.
func (r *Registry) Buttons() []*ButtonView {
	var out []*ButtonView
	r.Do(func() {
		out = make([]*ButtonView, 0, len(r.order))
		for _, id := range r.order {
			out = append(out, r.buttons[id])
		}
	})
	return out
}

func (r *Registry) Drawer() *Drawer {
	var d *Drawer
	r.Do(func() { d = r.drawer })
	return d
}

func (r *Registry) Badge() *Badge {
	var b *Badge
	r.Do(func() { b = r.badge })
	return b
}

func (r *Registry) Cart(ctx context.Context) domain.Cart {
	var c domain.Cart
	r.Do(func() { c = r.store.Read(ctx) })
	return c
}

// AddToCart selects variantIndex (negative keeps the current choice) on the
// container's button and adds it. It reports false for unknown containers.
func (r *Registry) AddToCart(ctx context.Context, containerID string, variantIndex int) bool {
	found := false
	r.Do(func() {
		b := r.buttons[containerID]
		if b == nil {
			return
		}
		found = true
		if variantIndex >= 0 {
			b.Select(variantIndex)
		}
		b.HandleAddToCart(ctx)
	})
	return found
}

func (r *Registry) UpdateQuantity(ctx context.Context, index int, action string) {
	r.Do(func() {
		if r.drawer != nil {
			r.drawer.UpdateQuantity(ctx, index, action)
		}
	})
}

func (r *Registry) RemoveItem(ctx context.Context, index int) {
	r.Do(func() {
		if r.drawer != nil {
			r.drawer.RemoveItem(ctx, index)
		}
	})
}

func (r *Registry) OpenDrawer() {
	r.Do(func() {
		if r.drawer != nil {
			r.drawer.Open()
		}
	})
}

func (r *Registry) CloseDrawer() {
	r.Do(func() {
		if r.drawer != nil {
			r.drawer.Close()
		}
	})
}

func (r *Registry) ClickBadge() {
	r.Do(func() {
		if r.badge != nil {
			r.badge.Click()
		}
	})
}

// Checkout runs the drawer's checkout flow. It leaves the loop while the
// storefront call is in flight.
func (r *Registry) Checkout(ctx context.Context) {
	var d *Drawer
	r.Do(func() { d = r.drawer })
	if d == nil {
		return
	}
	d.HandleCheckout(ctx)
}

// AddUpsellToCart is the detached entry point used by upsell markup. origin
// names the control that was pressed and may be empty. Undecodable tokens
// are ignored.
func (r *Registry) AddUpsellToCart(ctx context.Context, origin, token string) bool {
	rec, ok := upsell.Decode(token)
	if !ok {
		r.logger.Debug("ignoring undecodable upsell token")
		return false
	}
	r.Do(func() {
		if r.drawer != nil {
			r.drawer.AddUpsell(ctx, origin, rec)
			return
		}
		r.store.AddOrIncrement(ctx, rec.CartItem())
	})
	return true
}

// Fragments is the rendered markup of every view on the page.
type Fragments struct {
	Buttons map[string]template.HTML
	Drawer  template.HTML
	Badge   template.HTML
}

func (r *Registry) Render() (Fragments, error) {
	var (
		out Fragments
		err error
	)
	r.Do(func() {
		out.Buttons = make(map[string]template.HTML, len(r.buttons))
		for _, id := range r.order {
			var buf bytes.Buffer
			if err = r.buttons[id].Render(&buf); err != nil {
				return
			}
			out.Buttons[id] = template.HTML(buf.String())
		}
		if r.drawer != nil {
			var buf bytes.Buffer
			if err = r.drawer.Render(&buf); err != nil {
				return
			}
			out.Drawer = template.HTML(buf.String())
		}
		if r.badge != nil {
			var buf bytes.Buffer
			if err = r.badge.Render(&buf); err != nil {
				return
			}
			out.Badge = template.HTML(buf.String())
		}
	})
	return out, err
}
