package domain

import (
	"regexp"

	"github.com/shopspring/decimal"
)

var amountRe = regexp.MustCompile(`^\d*\.?\d*$`)

// IsAmountText reports whether s is acceptable raw amount input:
// digits with at most one decimal point, or the empty string.
func IsAmountText(s string) bool {
	return amountRe.MatchString(s)
}

// ParseAmount parses raw amount text. ok is false for text that is not a
// number or is not strictly positive.
func ParseAmount(s string) (decimal.Decimal, bool) {
	if s == "" || !amountRe.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}
