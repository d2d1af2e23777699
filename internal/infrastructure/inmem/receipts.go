package inmem

import (
	"context"
	"slices"
	"sync"

	"swapquote-service/internal/application"
	"swapquote-service/internal/domain"
)

var _ application.ReceiptRepo = (*Receipts)(nil)

// Receipts is the default process-local receipt ledger.
type Receipts struct {
	mu   sync.RWMutex
	list []domain.Receipt
	seen map[string]struct{}
}

func NewReceipts() *Receipts {
	return &Receipts{seen: map[string]struct{}{}}
}

func (r *Receipts) Append(_ context.Context, rc domain.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.seen[rc.ID]; dup {
		return nil
	}
	r.seen[rc.ID] = struct{}{}
	r.list = append(r.list, rc)
	return nil
}

// List returns up to limit receipts, newest first.
func (r *Receipts) List(_ context.Context, limit int) ([]domain.Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := slices.Clone(r.list)
	slices.Reverse(out)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
