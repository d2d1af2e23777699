package provider

import (
	"context"
	"maps"
	"slices"
	"time"

	"swapquote-service/internal/application"
	"swapquote-service/internal/domain"
)

// Ensure Fake implements application.PriceFeed.
var _ application.PriceFeed = (*Fake)(nil)

var defaultFakePrices = map[string]float64{"ETH": 2600, "BTC": 60000, "USDC": 1, "ATOM": 12}

// Fake serves a fixed price list stamped with the current time, sorted by
// currency.
type Fake struct {
	prices map[string]float64
}

func NewFake(prices map[string]float64) *Fake {
	if len(prices) == 0 {
		prices = defaultFakePrices
	}
	return &Fake{prices: maps.Clone(prices)}
}

func (f *Fake) Fetch(_ context.Context) ([]domain.PriceQuote, error) {
	now := time.Now().UTC()
	out := make([]domain.PriceQuote, 0, len(f.prices))
	for _, cur := range slices.Sorted(maps.Keys(f.prices)) {
		out = append(out, domain.PriceQuote{Currency: cur, AsOf: now, Price: f.prices[cur]})
	}
	return out, nil
}
