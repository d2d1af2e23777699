package application

import (
	"context"
	"time"

	"swapquote-service/internal/domain"

	"github.com/google/uuid"
)

// PriceFeed performs a single request against the upstream price source.
type PriceFeed interface {
	Fetch(ctx context.Context) ([]domain.PriceQuote, error)
}

// ReceiptRepo is an append-only ledger of settled swaps.
type ReceiptRepo interface {
	Append(ctx context.Context, r domain.Receipt) error
	List(ctx context.Context, limit int) ([]domain.Receipt, error)
}

type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type IDGen interface {
	NewID() string
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now().UTC() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

type defaultIDGen struct{}

func (defaultIDGen) NewID() string { return uuid.NewString() }
