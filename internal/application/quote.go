package application

import (
	"strconv"
	"strings"

	"swapquote-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Quote is the conversion of an input amount from one asset into another.
// Priced is false when the destination has no price; Output is then
// meaningless and must not be shown as a result.
type Quote struct {
	Amount decimal.Decimal
	USD    decimal.Decimal
	Output decimal.Decimal
	Valid  bool
	Priced bool
}

// QuoteSwap converts amountText of from into to via their USD prices.
func QuoteSwap(amountText string, from, to domain.Asset) Quote {
	amount, ok := domain.ParseAmount(amountText)
	if !ok {
		return Quote{Priced: to.Price > 0}
	}
	usd := amount.Mul(decimal.NewFromFloat(from.Price))
	q := Quote{Amount: amount, USD: usd, Valid: true, Priced: to.Price > 0}
	if q.Priced {
		q.Output = usd.Div(decimal.NewFromFloat(to.Price))
	}
	return q
}

// OutputAmount is the destination amount for display, 6 decimal places.
func (q Quote) OutputAmount() string {
	if !q.Valid || !q.Priced {
		return "0"
	}
	return q.Output.StringFixed(6)
}

// USDValue is the USD value for display, 2 decimal places.
func (q Quote) USDValue() string {
	if !q.Valid {
		return "0"
	}
	return q.USD.StringFixed(2)
}

// ExchangeRate is how many b one a buys. ok is false when b is unpriced.
func ExchangeRate(a, b domain.Asset) (float64, bool) {
	if b.Price <= 0 {
		return 0, false
	}
	return a.Price / b.Price, true
}

// USDValue prices a raw amount of a single asset.
func USDValue(amountText string, a domain.Asset) string {
	amount, ok := domain.ParseAmount(amountText)
	if !ok {
		return "0"
	}
	return amount.Mul(decimal.NewFromFloat(a.Price)).StringFixed(2)
}

// FormatPrice renders a price with at least 2 decimals, up to 6 below 1.
func FormatPrice(price float64) string {
	places := int32(2)
	if price < 1 {
		places = 6
	}
	s := decimal.NewFromFloat(price).StringFixed(places)
	if places > 2 {
		s = strings.TrimRight(s, "0")
		if dot := strings.IndexByte(s, '.'); len(s)-dot-1 < 2 {
			s += strings.Repeat("0", 2-(len(s)-dot-1))
		}
	}
	return s
}

// FormatBalance renders a balance the way it is typed: no trailing zeros.
func FormatBalance(b float64) string {
	return strconv.FormatFloat(b, 'f', -1, 64)
}
