package pg

import (
	"context"
	"fmt"

	"swapquote-service/internal/application"
	"swapquote-service/internal/domain"

	"github.com/jackc/pgx/v5"
)

var _ application.ReceiptRepo = (*ReceiptRepo)(nil)

// ReceiptRepo persists settled swaps in swap_receipts.
type ReceiptRepo struct{ db *DB }

func NewReceiptRepo(db *DB) *ReceiptRepo { return &ReceiptRepo{db: db} }

func (r *ReceiptRepo) Append(ctx context.Context, rc domain.Receipt) error {
	_, err := r.db.Pool.Exec(ctx, `
        INSERT INTO swap_receipts(id, session_id, from_symbol, to_symbol, from_amount, to_amount, usd_value, settled_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8)
        ON CONFLICT (id) DO NOTHING`,
		rc.ID, rc.SessionID, rc.FromSymbol, rc.ToSymbol, rc.FromAmount, rc.ToAmount, rc.USDValue, rc.SettledAt)
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

// List returns the newest receipts first.
func (r *ReceiptRepo) List(ctx context.Context, limit int) ([]domain.Receipt, error) {
	const q = `
        SELECT id, session_id, from_symbol, to_symbol,
               from_amount, to_amount, usd_value::text, settled_at
        FROM swap_receipts
        ORDER BY settled_at DESC, id
        LIMIT $1`
	rows, err := r.db.Pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Receipt, error) {
		var rc domain.Receipt
		err := row.Scan(&rc.ID, &rc.SessionID, &rc.FromSymbol, &rc.ToSymbol,
			&rc.FromAmount, &rc.ToAmount, &rc.USDValue, &rc.SettledAt)
		return rc, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan receipts: %w", err)
	}
	return out, nil
}
