package application

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"swapquote-service/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	MsgSelectBoth  = "Please select both tokens"
	MsgEnterAmount = "Please enter a valid amount"
	MsgSameToken   = "Cannot swap the same token"
	MsgSwapFailed  = "Swap failed. Please try again."
)

// SessionState is the read-only view of a session handed to the display layer.
type SessionState struct {
	ID                string          `json:"id"`
	Phase             domain.Phase    `json:"phase"`
	From              *domain.Asset   `json:"from_asset"`
	To                *domain.Asset   `json:"to_asset"`
	InputAmount       string          `json:"input_amount"`
	OutputAmount      string          `json:"output_amount"`
	USDValue          string          `json:"usd_value"`
	ValidationMessage string          `json:"validation_message"`
	Busy              bool            `json:"busy"`
	LastReceipt       *domain.Receipt `json:"last_receipt,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// SwapSession is the two-sided swap controller. All edits recompute the
// quote and validation message together under one lock, so the derived
// fields always match the latest inputs. Edits are refused while a
// settlement is in flight.
type SwapSession struct {
	id       string
	settler  Settler
	receipts ReceiptRepo
	clock    Clock
	log      *zap.Logger

	mu      sync.Mutex
	assets  []domain.Asset
	from    *domain.Asset
	to      *domain.Asset
	amount  string
	quote   Quote
	message string
	phase   domain.Phase
	receipt *domain.Receipt
	touched time.Time
}

type SessionOption func(*SwapSession)

func WithSessionClock(c Clock) SessionOption        { return func(s *SwapSession) { s.clock = c } }
func WithSessionLogger(l *zap.Logger) SessionOption { return func(s *SwapSession) { s.log = l } }
func WithReceipts(r ReceiptRepo) SessionOption      { return func(s *SwapSession) { s.receipts = r } }

func NewSwapSession(id string, settler Settler, opts ...SessionOption) *SwapSession {
	s := &SwapSession{id: id, settler: settler, phase: domain.PhaseUninitialized}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.log = s.log.With(zap.String("session_id", id))
	s.touched = s.clock.Now()
	s.recomputeLocked()
	return s
}

func (s *SwapSession) ID() string { return s.id }

// SetAssets replaces the catalog. The first two assets become the default
// pair when nothing is selected yet; selected assets are re-priced from the
// new catalog or dropped when they left it. A settlement failure stays on
// display unless the selected pair changed.
func (s *SwapSession) SetAssets(assets []domain.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prevFrom, prevTo := s.from, s.to
	s.assets = slices.Clone(assets)
	if s.from == nil && s.to == nil {
		if len(assets) > 0 {
			from := assets[0]
			s.from = &from
		}
		if len(assets) > 1 {
			to := assets[1]
			s.to = &to
		}
	} else {
		s.from = s.reprice(s.from)
		s.to = s.reprice(s.to)
	}
	if s.phase == domain.PhaseError && samePricedAsset(prevFrom, s.from) && samePricedAsset(prevTo, s.to) {
		return
	}
	s.recomputeLocked()
}

func samePricedAsset(a, b *domain.Asset) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Symbol == b.Symbol && a.Price == b.Price
}

func (s *SwapSession) reprice(a *domain.Asset) *domain.Asset {
	if a == nil {
		return nil
	}
	fresh, ok := LookupAsset(s.assets, a.Symbol)
	if !ok {
		return nil
	}
	return &fresh
}

// Assets returns the session's current catalog.
func (s *SwapSession) Assets() []domain.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.assets)
}

// Asset looks up a symbol in the session's catalog.
func (s *SwapSession) Asset(symbol string) (domain.Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return LookupAsset(s.assets, symbol)
}

func (s *SwapSession) SelectFrom(a domain.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == domain.PhaseBusy {
		return ErrSessionBusy
	}
	s.from = &a
	if s.to != nil && s.to.Symbol == a.Symbol {
		s.to = nil
	}
	s.touchLocked()
	return nil
}

func (s *SwapSession) SelectTo(a domain.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == domain.PhaseBusy {
		return ErrSessionBusy
	}
	s.to = &a
	if s.from != nil && s.from.Symbol == a.Symbol {
		s.from = nil
	}
	s.touchLocked()
	return nil
}

// SetAmount accepts digits with at most one decimal point, or "". Anything
// else is ignored and reported as not accepted.
func (s *SwapSession) SetAmount(text string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == domain.PhaseBusy {
		return false, ErrSessionBusy
	}
	if !domain.IsAmountText(text) {
		return false, nil
	}
	s.amount = text
	s.touchLocked()
	return true, nil
}

// Flip exchanges the two sides and clears the amount. The previous output
// is never carried over as the new input.
func (s *SwapSession) Flip() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == domain.PhaseBusy {
		return ErrSessionBusy
	}
	if s.from == nil || s.to == nil {
		return nil
	}
	s.from, s.to = s.to, s.from
	s.amount = ""
	s.touchLocked()
	return nil
}

// MaxAmount sets the amount to the full balance of the from side.
func (s *SwapSession) MaxAmount() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == domain.PhaseBusy {
		return ErrSessionBusy
	}
	if s.from == nil {
		return nil
	}
	s.amount = FormatBalance(s.from.Balance)
	s.touchLocked()
	return nil
}

func (s *SwapSession) Validate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked()
}

func (s *SwapSession) validateLocked() string {
	if s.from == nil || s.to == nil {
		return MsgSelectBoth
	}
	amount, ok := domain.ParseAmount(s.amount)
	if !ok {
		return MsgEnterAmount
	}
	if amount.GreaterThan(decimal.NewFromFloat(s.from.Balance)) {
		return fmt.Sprintf("Insufficient balance. Available: %s %s", FormatBalance(s.from.Balance), s.from.Symbol)
	}
	if s.from.Symbol == s.to.Symbol {
		return MsgSameToken
	}
	if !s.quote.Priced {
		return fmt.Sprintf("Unable to quote: %s has no price", s.to.Symbol)
	}
	return ""
}

// Submit validates and settles the current swap. Validation failures set the
// message and return a *ValidationError without changing phase. The session
// lock is not held while settling.
func (s *SwapSession) Submit(ctx context.Context) (domain.Receipt, error) {
	s.mu.Lock()
	if s.phase == domain.PhaseBusy {
		s.mu.Unlock()
		return domain.Receipt{}, ErrSessionBusy
	}
	if msg := s.validateLocked(); msg != "" {
		s.message = msg
		s.mu.Unlock()
		return domain.Receipt{}, &ValidationError{Message: msg}
	}
	order := Order{SessionID: s.id, From: *s.from, To: *s.to, Quote: s.quote}
	s.phase = domain.PhaseBusy
	s.message = ""
	s.mu.Unlock()

	log := s.log.With(
		zap.String("from", order.From.Symbol),
		zap.String("to", order.To.Symbol),
		zap.String("amount", order.Quote.Amount.String()),
	)
	log.Info("swap.settle_start")

	receipt, err := s.settle(ctx, order)

	s.mu.Lock()
	if err != nil {
		s.message = MsgSwapFailed
		s.phase = domain.PhaseError
		s.touched = s.clock.Now()
		s.mu.Unlock()
		log.Warn("swap.settle_failed", zap.Error(err))
		return domain.Receipt{}, fmt.Errorf("settle: %w", err)
	}
	s.phase = domain.PhaseSelecting
	s.receipt = &receipt
	s.amount = ""
	s.touchLocked()
	s.mu.Unlock()

	log.Info("swap.settle_done", zap.String("receipt_id", receipt.ID), zap.String("to_amount", receipt.ToAmount))
	if s.receipts != nil {
		if err := s.receipts.Append(ctx, receipt); err != nil {
			log.Warn("swap.receipt_append_failed", zap.Error(err))
		}
	}
	return receipt, nil
}

func (s *SwapSession) settle(ctx context.Context, o Order) (r domain.Receipt, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("settlement panic: %v", rec)
		}
	}()
	return s.settler.Settle(ctx, o)
}

// Snapshot returns a copy of the session state.
func (s *SwapSession) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := SessionState{
		ID:                s.id,
		Phase:             s.phase,
		InputAmount:       s.amount,
		OutputAmount:      s.quote.OutputAmount(),
		USDValue:          s.quote.USDValue(),
		ValidationMessage: s.message,
		Busy:              s.phase == domain.PhaseBusy,
		UpdatedAt:         s.touched,
	}
	if s.from != nil {
		from := *s.from
		st.From = &from
	}
	if s.to != nil {
		to := *s.to
		st.To = &to
	}
	if s.receipt != nil {
		r := *s.receipt
		st.LastReceipt = &r
	}
	return st
}

// Rate is the display exchange rate between the selected assets.
func (s *SwapSession) Rate() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.from == nil || s.to == nil {
		return 0, false
	}
	return ExchangeRate(*s.from, *s.to)
}

// IdleSince reports the time of the last edit.
func (s *SwapSession) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

func (s *SwapSession) touchLocked() {
	s.touched = s.clock.Now()
	s.recomputeLocked()
}

// recomputeLocked derives quote, message and phase from the inputs.
func (s *SwapSession) recomputeLocked() {
	if s.from != nil && s.to != nil {
		s.quote = QuoteSwap(s.amount, *s.from, *s.to)
	} else {
		s.quote = Quote{}
	}
	s.message = s.validateLocked()
	if s.phase == domain.PhaseBusy {
		return
	}
	switch {
	case s.from == nil && s.to == nil:
		s.phase = domain.PhaseUninitialized
	case s.message == "":
		s.phase = domain.PhaseReady
	default:
		s.phase = domain.PhaseSelecting
	}
}
