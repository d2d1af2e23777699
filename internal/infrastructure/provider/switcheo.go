package provider

import (
	"context"
	"strings"
	"time"

	"swapquote-service/internal/application"
	"swapquote-service/internal/domain"
	"swapquote-service/internal/infrastructure/httpx"
)

const DefaultSwitcheoURL = "https://interview.switcheo.com/prices.json"

// SwitcheoFeed reads the public Switcheo price list: a JSON array of
// {currency, date, price} records.
type SwitcheoFeed struct {
	URL    string
	Client *httpx.Client
}

var _ application.PriceFeed = (*SwitcheoFeed)(nil)

func NewSwitcheoFeed(url string, client *httpx.Client) *SwitcheoFeed {
	if url == "" {
		url = DefaultSwitcheoURL
	}
	if client == nil {
		client = &httpx.Client{}
	}
	return &SwitcheoFeed{URL: url, Client: client}
}

type switcheoPrice struct {
	Currency string  `json:"currency"`
	Date     string  `json:"date"`
	Price    float64 `json:"price"`
}

func (f *SwitcheoFeed) Fetch(ctx context.Context) ([]domain.PriceQuote, error) {
	var body []switcheoPrice
	if err := f.Client.GetJSONArray(ctx, f.URL, &body); err != nil {
		return nil, err
	}
	out := make([]domain.PriceQuote, 0, len(body))
	for _, p := range body {
		out = append(out, domain.PriceQuote{
			Currency: strings.TrimSpace(p.Currency),
			AsOf:     parseDate(p.Date),
			Price:    p.Price,
		})
	}
	return out, nil
}

// parseDate accepts RFC 3339 with or without fractional seconds. An
// unreadable date is kept as the zero time; the price is still usable.
func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.000Z07:00", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
