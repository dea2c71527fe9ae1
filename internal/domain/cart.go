package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Cart is the persisted, ordered collection of purchase intents. Insertion
// order is display order and there is at most one item per variant id.
type Cart struct {
	Items []CartItem `json:"items"`
}

type CartItem struct {
	VariantID       string           `json:"variantId"`
	ProductTitle    string           `json:"productTitle"`
	VariantTitle    string           `json:"variantTitle"`
	Image           string           `json:"image"`
	Price           Money            `json:"price"`
	Quantity        int              `json:"quantity"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// EmptyCart returns a cart whose items encode as [] rather than null.
func EmptyCart() Cart {
	return Cart{Items: []CartItem{}}
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// IndexOf returns the position of the item holding variantID, or -1.
func (c Cart) IndexOf(variantID string) int {
	for i, item := range c.Items {
		if item.VariantID == variantID {
			return i
		}
	}
	return -1
}

func (c Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Clone copies the item slice so callers can mutate the result freely.
func (c Cart) Clone() Cart {
	out := Cart{Items: make([]CartItem, len(c.Items))}
	copy(out.Items, c.Items)
	return out
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Amount.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// VariantSummary joins the selected option values with " / " and falls back
// to the variant title when there are none.
func (i CartItem) VariantSummary() string {
	if s := JoinOptionValues(i.SelectedOptions); s != "" {
		return s
	}
	return i.VariantTitle
}

func JoinOptionValues(opts []SelectedOption) string {
	values := make([]string, 0, len(opts))
	for _, o := range opts {
		values = append(values, o.Value)
	}
	return strings.Join(values, " / ")
}
