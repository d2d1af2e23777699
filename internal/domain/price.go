package domain

import "time"

// PriceQuote is one upstream price point. Immutable once produced.
type PriceQuote struct {
	Currency string    `json:"currency"`
	AsOf     time.Time `json:"date"`
	Price    float64   `json:"price"`
}

// PriceSnapshot is the single cached result of a successful fetch.
type PriceSnapshot struct {
	Quotes    []PriceQuote
	FetchedAt time.Time
}
