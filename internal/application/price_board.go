package application

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"swapquote-service/internal/domain"

	"go.uber.org/zap"
)

const MsgUsingCachedPrices = "Using cached prices."

// BoardState is what the display layer renders for prices. Error is set only
// when no data could be served at all; Warning is set when stale data was
// served after a failed refresh.
type BoardState struct {
	Prices      []domain.PriceQuote `json:"prices"`
	Loading     bool                `json:"loading"`
	Error       string              `json:"error,omitempty"`
	Warning     string              `json:"warning,omitempty"`
	LastUpdated *time.Time          `json:"last_updated,omitempty"`
}

// PriceBoard tracks the latest fetch outcome for the display boundary.
type PriceBoard struct {
	cache *PriceCache
	log   *zap.Logger

	mu       sync.Mutex
	state    BoardState
	inflight int
	issued   uint64
	applied  uint64
}

func NewPriceBoard(cache *PriceCache, log *zap.Logger) *PriceBoard {
	if log == nil {
		log = zap.NewNop()
	}
	return &PriceBoard{cache: cache, log: log, state: BoardState{Prices: []domain.PriceQuote{}}}
}

// Load fetches through the cache and records the outcome. A slower load
// never overwrites the outcome of one issued after it.
func (b *PriceBoard) Load(ctx context.Context, useCache bool) BoardState {
	b.mu.Lock()
	b.issued++
	seq := b.issued
	b.inflight++
	b.state.Loading = true
	b.state.Error = ""
	b.mu.Unlock()

	res, err := b.cache.Fetch(ctx, useCache)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.inflight--
	b.state.Loading = b.inflight > 0
	if seq < b.applied {
		return b.copyLocked()
	}
	b.applied = seq
	if err != nil {
		b.state.Error = FormatFetchError(err)
		b.log.Warn("price_board.load_failed", zap.Error(err))
		return b.copyLocked()
	}
	b.state.Prices = res.Snapshot.Quotes
	fetchedAt := res.Snapshot.FetchedAt
	b.state.LastUpdated = &fetchedAt
	b.state.Warning = ""
	if res.Stale {
		b.state.Warning = MsgUsingCachedPrices + " " + FormatFetchError(res.Cause)
	}
	return b.copyLocked()
}

// Refetch bypasses the cache.
func (b *PriceBoard) Refetch(ctx context.Context) BoardState { return b.Load(ctx, false) }

func (b *PriceBoard) State() BoardState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.copyLocked()
}

// GetPrice looks up a currency in the last loaded prices.
func (b *PriceBoard) GetPrice(currency string) (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return FindPrice(b.state.Prices, currency)
}

func (b *PriceBoard) ClearError() {
	b.mu.Lock()
	b.state.Error = ""
	b.mu.Unlock()
}

func (b *PriceBoard) copyLocked() BoardState {
	st := b.state
	st.Prices = slices.Clone(b.state.Prices)
	if b.state.LastUpdated != nil {
		t := *b.state.LastUpdated
		st.LastUpdated = &t
	}
	return st
}

// FormatFetchError renders a fetch error for display.
func FormatFetchError(err error) string {
	var apiErr *domain.APIError
	var netErr *domain.NetworkError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return "API Error: " + apiErr.Error()
	case errors.As(err, &netErr):
		return "Network Error: " + netErr.Error()
	default:
		return err.Error()
	}
}
