package checkout

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"buywidget/internal/domain"
	"go.uber.org/zap"
)

const (
	channelParam = "channel"
	channelValue = "online_store"

	noticeCartEmpty = "Your cart is empty"
	noticeFailed    = "Failed to create checkout. Please try again."
)

type State int

const (
	Idle State = iota
	Submitting
)

func (s State) String() string {
	if s == Submitting {
		return "submitting"
	}
	return "idle"
}

// Control is the checkout trigger owned by the drawer.
type Control struct {
	State     State
	Disabled  bool
	Label     string
	idleLabel string
	busyLabel string
}

func NewControl(idleLabel, busyLabel string) *Control {
	return &Control{State: Idle, Label: idleLabel, idleLabel: idleLabel, busyLabel: busyLabel}
}

func (c *Control) begin() bool {
	if c.State == Submitting {
		return false
	}
	c.State = Submitting
	c.Disabled = true
	c.Label = c.busyLabel
	return true
}

func (c *Control) reset() {
	c.State = Idle
	c.Disabled = false
	c.Label = c.idleLabel
}

type CartReader interface {
	Read(ctx context.Context) domain.Cart
}

type SessionCreator interface {
	CreateSession(ctx context.Context, ep Endpoint, lines []Line) (string, error)
}

// UI surfaces blocking notices and performs navigation.
type UI interface {
	Notify(message string)
	Navigate(target string)
}

// Loop serializes UI events. The orchestrator leaves it while waiting on
// the network so other events keep running.
type Loop interface {
	Do(fn func())
}

type Orchestrator struct {
	cart     CartReader
	sessions SessionCreator
	ui       UI
	loop     Loop
	endpoint Endpoint
	timeout  time.Duration
	logger   *zap.Logger
}

type Options struct {
	Endpoint Endpoint
	// Timeout bounds the storefront call; zero waits until ctx ends.
	Timeout time.Duration
}

func NewOrchestrator(cart CartReader, sessions SessionCreator, ui UI, loop Loop, opts Options, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		cart:     cart,
		sessions: sessions,
		ui:       ui,
		loop:     loop,
		endpoint: opts.Endpoint,
		timeout:  opts.Timeout,
		logger:   logger,
	}
}

// Checkout runs Idle -> Submitting -> Idle on ctrl. It must be called from
// outside the loop; it enters the loop itself around the cart snapshot and
// again to settle the control.
func (o *Orchestrator) Checkout(ctx context.Context, ctrl *Control) {
	var lines []Line
	started := false
	o.loop.Do(func() {
		cart := o.cart.Read(ctx)
		if cart.IsEmpty() {
			o.ui.Notify(noticeCartEmpty)
			return
		}
		if !ctrl.begin() {
			return
		}
		started = true
		lines = make([]Line, 0, len(cart.Items))
		for _, item := range cart.Items {
			lines = append(lines, Line{Quantity: item.Quantity, MerchandiseID: item.VariantID})
		}
	})
	if !started {
		return
	}

	callCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	checkoutURL, err := o.sessions.CreateSession(callCtx, o.endpoint, lines)
	if err == nil {
		checkoutURL, err = withChannel(checkoutURL)
	}

	o.loop.Do(func() {
		defer ctrl.reset()
		var userErr *domain.CheckoutUserError
		switch {
		case err == nil:
			o.logger.Info("checkout created", zap.Int("lines", len(lines)))
			o.ui.Navigate(checkoutURL)
		case errors.As(err, &userErr):
			o.logger.Warn("checkout rejected", zap.Strings("messages", userErr.Messages))
			o.ui.Notify(userErr.Error())
		default:
			o.logger.Error("checkout error", zap.Error(err))
			o.ui.Notify(noticeFailed)
		}
	})
}

func withChannel(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if !u.IsAbs() {
		return "", domain.ErrNoCheckoutURL
	}
	u.RawQuery = setQueryParam(u.RawQuery, channelParam, channelValue)
	return u.String(), nil
}

// setQueryParam sets key=value in raw without reordering other pairs: the
// first occurrence is replaced in place, later ones dropped, and a missing
// key is appended.
func setQueryParam(raw, key, value string) string {
	pair := url.QueryEscape(key) + "=" + url.QueryEscape(value)
	var (
		out []string
		set bool
	)
	if raw != "" {
		for _, part := range strings.Split(raw, "&") {
			name, _, _ := strings.Cut(part, "=")
			if decoded, err := url.QueryUnescape(name); err == nil && decoded == key {
				if !set {
					out = append(out, pair)
					set = true
				}
				continue
			}
			out = append(out, part)
		}
	}
	if !set {
		out = append(out, pair)
	}
	return strings.Join(out, "&")
}
