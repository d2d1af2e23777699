// Package assets holds the static token list and demo wallet balances.
package assets

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"swapquote-service/internal/domain"
)

//go:embed market.json
var marketJSON []byte

//go:embed balances.json
var balancesJSON []byte

type marketFile struct {
	CoinList []domain.AssetMeta `json:"coinList"`
}

type balancesFile struct {
	Balances map[string]float64 `json:"balances"`
}

// Load decodes the embedded token list (in display order) and balances.
func Load() ([]domain.AssetMeta, map[string]float64, error) {
	var m marketFile
	if err := json.Unmarshal(marketJSON, &m); err != nil {
		return nil, nil, fmt.Errorf("assets: decode market: %w", err)
	}
	var b balancesFile
	if err := json.Unmarshal(balancesJSON, &b); err != nil {
		return nil, nil, fmt.Errorf("assets: decode balances: %w", err)
	}
	if b.Balances == nil {
		b.Balances = map[string]float64{}
	}
	return m.CoinList, b.Balances, nil
}
