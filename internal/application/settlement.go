package application

import (
	"context"
	"time"

	"swapquote-service/internal/domain"
)

const DefaultSettleDelay = time.Second

// Order is a validated swap handed to a Settler.
type Order struct {
	SessionID string
	From      domain.Asset
	To        domain.Asset
	Quote     Quote
}

type Settler interface {
	Settle(ctx context.Context, o Order) (domain.Receipt, error)
}

// SimulatedSettler stands in for trade execution: it waits Delay and
// reports success.
type SimulatedSettler struct {
	Delay time.Duration
	Clock Clock
	IDs   IDGen
}

func NewSimulatedSettler(delay time.Duration) *SimulatedSettler {
	return &SimulatedSettler{Delay: delay, Clock: realClock{}, IDs: defaultIDGen{}}
}

func (s *SimulatedSettler) Settle(ctx context.Context, o Order) (domain.Receipt, error) {
	clock := s.Clock
	if clock == nil {
		clock = realClock{}
	}
	ids := s.IDs
	if ids == nil {
		ids = defaultIDGen{}
	}
	delay := s.Delay
	if delay < 0 {
		delay = 0
	}
	select {
	case <-ctx.Done():
		return domain.Receipt{}, ctx.Err()
	case <-clock.After(delay):
	}
	return domain.Receipt{
		ID:         ids.NewID(),
		SessionID:  o.SessionID,
		FromSymbol: o.From.Symbol,
		ToSymbol:   o.To.Symbol,
		FromAmount: o.Quote.Amount.String(),
		ToAmount:   o.Quote.OutputAmount(),
		USDValue:   o.Quote.USDValue(),
		SettledAt:  clock.Now(),
	}, nil
}
