package domain

import "time"

// Receipt records a settled (simulated) swap.
type Receipt struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	FromSymbol string    `json:"from_symbol"`
	ToSymbol   string    `json:"to_symbol"`
	FromAmount string    `json:"from_amount"`
	ToAmount   string    `json:"to_amount"`
	USDValue   string    `json:"usd_value"`
	SettledAt  time.Time `json:"settled_at"`
}
