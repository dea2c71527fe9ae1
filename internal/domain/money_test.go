package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyUnmarshal_StringAndNumberAmounts(t *testing.T) {
	var fromString, fromNumber Money
	if err := json.Unmarshal([]byte(`{"amount":"10.00","currencyCode":"USD"}`), &fromString); err != nil {
		t.Fatalf("unmarshal string amount: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"amount":10,"currencyCode":"USD"}`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number amount: %v", err)
	}
	if !fromString.Amount.Equal(fromNumber.Amount) || fromString.CurrencyCode != "USD" {
		t.Fatalf("expected equal amounts, got %v and %v", fromString, fromNumber)
	}
}

func TestMoneyUnmarshal_LegacyBarePrice(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`"12.5"`), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !m.Amount.Equal(decimal.RequireFromString("12.5")) || m.CurrencyCode != "" {
		t.Fatalf("unexpected money %+v", m)
	}
}

func TestMoneyUnmarshal_GarbageAmountIsZero(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`{"amount":"abc","currencyCode":"EUR"}`), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !m.Amount.IsZero() || m.CurrencyCode != "EUR" {
		t.Fatalf("unexpected money %+v", m)
	}
}

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		amount   string
		currency string
		want     string
	}{
		{"20", "USD", "$20.00"},
		{"3.5", "EUR", "€3.50"},
		{"0", "USD", "$0.00"},
		{"7.1", "XYZ", "7.10"},
		{"12", "BRL", "R$12.00"},
	}
	for _, tc := range cases {
		if got := FormatPrice(decimal.RequireFromString(tc.amount), tc.currency); got != tc.want {
			t.Fatalf("FormatPrice(%s, %s) = %q, want %q", tc.amount, tc.currency, got, tc.want)
		}
	}
}

func TestCartHelpers(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{VariantID: "a", Quantity: 2, Price: Money{Amount: decimal.RequireFromString("1.25")}},
		{VariantID: "b", Quantity: 3, VariantTitle: "Large", SelectedOptions: []SelectedOption{{Name: "Size", Value: "L"}, {Name: "Color", Value: "Red"}}},
	}}
	if cart.TotalQuantity() != 5 {
		t.Fatalf("expected total quantity 5, got %d", cart.TotalQuantity())
	}
	if cart.IndexOf("b") != 1 || cart.IndexOf("zzz") != -1 {
		t.Fatalf("unexpected IndexOf results")
	}
	if got := cart.Items[0].LineTotal(); !got.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("unexpected line total %s", got)
	}
	if got := cart.Items[1].VariantSummary(); got != "L / Red" {
		t.Fatalf("unexpected summary %q", got)
	}
	cart.Items[1].SelectedOptions = nil
	if got := cart.Items[1].VariantSummary(); got != "Large" {
		t.Fatalf("unexpected fallback summary %q", got)
	}
}
