package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	ErrMissingConfig      = errors.New("missing container id or config")
	ErrDuplicateContainer = errors.New("instance already initialized for container")
	ErrContainerMissing   = errors.New("container not found")

	// ErrNotPurchasable is returned when a product has no resolvable variant.
	ErrNotPurchasable = errors.New("product variant not available")

	ErrCartEmpty     = errors.New("cart is empty")
	ErrNoCheckoutURL = errors.New("no checkout URL returned")
)

// CheckoutUserError carries field-level errors reported by the storefront.
type CheckoutUserError struct {
	Messages []string
}

func (e *CheckoutUserError) Error() string {
	return strings.Join(e.Messages, ", ")
}
