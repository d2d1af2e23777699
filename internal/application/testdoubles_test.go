package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"swapquote-service/internal/domain"
)

var ErrFeed = errors.New("feed error")

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// After fires immediately; tests never wait on wall time.
func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- c.Now().Add(d)
	return ch
}

type fakeFeed struct {
	mu     sync.Mutex
	calls  int
	quotes []domain.PriceQuote
	err    error
	block  bool
}

func (f *fakeFeed) Fetch(ctx context.Context) ([]domain.PriceQuote, error) {
	f.mu.Lock()
	f.calls++
	quotes, err, block := f.quotes, f.err, f.block
	f.mu.Unlock()
	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return quotes, err
}

func (f *fakeFeed) set(quotes []domain.PriceQuote, err error, block bool) {
	f.mu.Lock()
	f.quotes, f.err, f.block = quotes, err, block
	f.mu.Unlock()
}

func (f *fakeFeed) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSettler struct {
	err   error
	panic bool
	gate  chan struct{}
	ids   int
}

func (f *fakeSettler) Settle(ctx context.Context, o Order) (domain.Receipt, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return domain.Receipt{}, ctx.Err()
		}
	}
	if f.panic {
		panic("boom")
	}
	if f.err != nil {
		return domain.Receipt{}, f.err
	}
	f.ids++
	return domain.Receipt{
		ID:         "receipt-1",
		SessionID:  o.SessionID,
		FromSymbol: o.From.Symbol,
		ToSymbol:   o.To.Symbol,
		FromAmount: o.Quote.Amount.String(),
		ToAmount:   o.Quote.OutputAmount(),
		USDValue:   o.Quote.USDValue(),
	}, nil
}

type memReceipts struct {
	mu   sync.Mutex
	list []domain.Receipt
}

func (m *memReceipts) Append(_ context.Context, r domain.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, r)
	return nil
}

func (m *memReceipts) List(_ context.Context, limit int) ([]domain.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.list) {
		limit = len(m.list)
	}
	return append([]domain.Receipt(nil), m.list[:limit]...), nil
}

type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return "session-" + string(rune('0'+s.n))
}

var (
	assetETH  = domain.Asset{Symbol: "ETH", Name: "Ethereum", Price: 2600, Balance: 10}
	assetBTC  = domain.Asset{Symbol: "BTC", Name: "Bitcoin", Price: 60000, Balance: 1}
	assetUSDC = domain.Asset{Symbol: "USDC", Name: "USD Coin", Price: 1, Balance: 500}
	assetFOO  = domain.Asset{Symbol: "FOO", Name: "Unpriced", Price: 0, Balance: 3}
)

func testAssets() []domain.Asset {
	return []domain.Asset{assetETH, assetBTC, assetUSDC, assetFOO}
}
