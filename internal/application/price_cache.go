package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"swapquote-service/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultPriceTTL     = 60 * time.Second
	DefaultFetchTimeout = 10 * time.Second
)

// FetchResult is what PriceCache.Fetch hands back. Stale is set when the
// refresh failed and the previous entry was served instead; Cause then holds
// the refresh error so the caller can warn about degraded data.
type FetchResult struct {
	Snapshot  domain.PriceSnapshot
	FromCache bool
	Stale     bool
	Cause     error
}

// PriceCache owns the single process-wide price entry. Build exactly one per
// process and inject it where prices are needed.
type PriceCache struct {
	feed    PriceFeed
	clock   Clock
	ttl     time.Duration
	timeout time.Duration
	log     *zap.Logger

	group singleflight.Group

	mu        sync.Mutex
	entry     *domain.PriceSnapshot
	issued    uint64
	committed uint64
}

type CacheOption func(*PriceCache)

func WithCacheClock(c Clock) CacheOption           { return func(p *PriceCache) { p.clock = c } }
func WithTTL(d time.Duration) CacheOption          { return func(p *PriceCache) { p.ttl = d } }
func WithFetchTimeout(d time.Duration) CacheOption { return func(p *PriceCache) { p.timeout = d } }
func WithCacheLogger(l *zap.Logger) CacheOption    { return func(p *PriceCache) { p.log = l } }

func NewPriceCache(feed PriceFeed, opts ...CacheOption) *PriceCache {
	c := &PriceCache{feed: feed}
	for _, opt := range opts {
		opt(c)
	}
	if c.clock == nil {
		c.clock = realClock{}
	}
	if c.ttl <= 0 {
		c.ttl = DefaultPriceTTL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultFetchTimeout
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// Fetch returns prices. With useCache and an entry younger than the TTL no
// network call is made. Concurrent cache misses share one request.
func (c *PriceCache) Fetch(ctx context.Context, useCache bool) (FetchResult, error) {
	if !useCache {
		return c.refresh(ctx)
	}
	if snap, ok := c.fresh(); ok {
		c.log.Debug("price_cache.hit", zap.Time("fetched_at", snap.FetchedAt))
		return FetchResult{Snapshot: snap, FromCache: true}, nil
	}
	// The shared refresh must outlive any single caller; it stays bounded by
	// the fetch timeout.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan("prices", func() (any, error) {
		return c.refresh(shared)
	})
	select {
	case <-ctx.Done():
		return c.fallback(c.log, classifyFetchError(ctx, ctx.Err()))
	case r := <-ch:
		if r.Err != nil {
			return FetchResult{}, r.Err
		}
		return r.Val.(FetchResult), nil
	}
}

func (c *PriceCache) fresh() (domain.PriceSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entry == nil {
		return domain.PriceSnapshot{}, false
	}
	if c.clock.Now().Sub(c.entry.FetchedAt) >= c.ttl {
		return domain.PriceSnapshot{}, false
	}
	return *c.entry, true
}

func (c *PriceCache) refresh(ctx context.Context) (FetchResult, error) {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.mu.Unlock()

	log := c.log.With(zap.Uint64("seq", seq))

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log.Info("price_cache.fetch_start", zap.Duration("timeout", c.timeout))
	quotes, err := c.feed.Fetch(fetchCtx)
	if err != nil {
		return c.fallback(log, classifyFetchError(fetchCtx, err))
	}
	if quotes == nil {
		quotes = []domain.PriceQuote{}
	}

	snap := domain.PriceSnapshot{Quotes: quotes, FetchedAt: c.clock.Now()}

	c.mu.Lock()
	if seq > c.committed {
		c.entry = &snap
		c.committed = seq
	} else {
		// A newer refresh already landed; keep it.
		log.Info("price_cache.outdated_discarded", zap.Uint64("committed", c.committed))
		snap = *c.entry
	}
	c.mu.Unlock()

	log.Info("price_cache.fetch_success", zap.Int("count", len(snap.Quotes)))
	return FetchResult{Snapshot: snap}, nil
}

func (c *PriceCache) fallback(log *zap.Logger, err error) (FetchResult, error) {
	c.mu.Lock()
	entry := c.entry
	c.mu.Unlock()
	if entry == nil {
		log.Warn("price_cache.fetch_failed", zap.Error(err))
		return FetchResult{}, err
	}
	log.Warn("price_cache.stale_fallback",
		zap.Error(err),
		zap.Time("fetched_at", entry.FetchedAt),
	)
	return FetchResult{Snapshot: *entry, FromCache: true, Stale: true, Cause: err}, nil
}

func classifyFetchError(ctx context.Context, err error) error {
	var netErr *domain.NetworkError
	var apiErr *domain.APIError
	switch {
	case errors.As(err, &apiErr):
		return err
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &domain.NetworkError{Msg: "Request timeout", Err: err}
	case errors.As(err, &netErr):
		return err
	default:
		return &domain.NetworkError{Msg: "Failed to fetch data", Err: err}
	}
}

// Entry returns the current entry regardless of age.
func (c *PriceCache) Entry() (domain.PriceSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entry == nil {
		return domain.PriceSnapshot{}, false
	}
	return *c.entry, true
}

// Clear drops the entry. The next Fetch always goes to the network.
func (c *PriceCache) Clear() {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
	c.log.Info("price_cache.cleared")
}

// Price looks up one currency, case-insensitively. Failures yield ok=false.
func (c *PriceCache) Price(ctx context.Context, currency string) (float64, bool) {
	res, err := c.Fetch(ctx, true)
	if err != nil {
		c.log.Warn("price_cache.price_failed", zap.String("currency", currency), zap.Error(err))
		return 0, false
	}
	return FindPrice(res.Snapshot.Quotes, currency)
}

// Prices looks up several currencies. Missing ones are left out; the map is
// keyed by upper-case symbol.
func (c *PriceCache) Prices(ctx context.Context, currencies []string) map[string]float64 {
	out := make(map[string]float64, len(currencies))
	res, err := c.Fetch(ctx, true)
	if err != nil {
		c.log.Warn("price_cache.prices_failed", zap.Error(err))
		return out
	}
	for _, cur := range currencies {
		if p, ok := FindPrice(res.Snapshot.Quotes, cur); ok {
			out[strings.ToUpper(cur)] = p
		}
	}
	return out
}

// FindPrice returns the first quote whose currency matches case-insensitively.
func FindPrice(quotes []domain.PriceQuote, currency string) (float64, bool) {
	for _, q := range quotes {
		if strings.EqualFold(q.Currency, currency) {
			return q.Price, true
		}
	}
	return 0, false
}
