package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used for display when nothing else names a currency.
const DefaultCurrency = "USD"

var currencySymbols = map[string]string{
	"USD": "$", "EUR": "€", "GBP": "£", "JPY": "¥", "CNY": "¥",
	"BRL": "R$", "CAD": "CA$", "AUD": "A$", "CHF": "CHF",
	"INR": "₹", "MXN": "MX$", "RUB": "₽", "KRW": "₩",
	"AED": "د.إ", "SAR": "﷼",
}

// Money is a decimal amount tagged with an ISO currency code.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

type moneyJSON struct {
	Amount       json.RawMessage `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// UnmarshalJSON accepts {"amount": "10.00" | 10, "currencyCode": "USD"} as
// well as a bare string or number price left behind by older records.
// Unparsable amounts decode to zero.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = Money{}
		return nil
	}
	if data[0] != '{' {
		*m = Money{Amount: parseRawAmount(data)}
		return nil
	}
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Money{Amount: parseRawAmount(raw.Amount), CurrencyCode: raw.CurrencyCode}
	return nil
}

func parseRawAmount(raw json.RawMessage) decimal.Decimal {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	return ParseAmount(s)
}

// ParseAmount parses a decimal string leniently; garbage yields zero.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatPrice renders amount with the currency's symbol and two decimals.
// Unknown currencies render without a symbol.
func FormatPrice(amount decimal.Decimal, currencyCode string) string {
	return currencySymbols[currencyCode] + amount.StringFixed(2)
}
