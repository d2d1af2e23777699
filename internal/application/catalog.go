package application

import (
	"strings"

	"swapquote-service/internal/domain"
)

// FallbackPrices are approximate USD prices used when the feed has no quote
// for a known symbol.
var FallbackPrices = map[string]float64{
	"BTC":   60000,
	"ETH":   2600,
	"USDT":  1.0,
	"USDC":  1.0,
	"BNB":   300,
	"SOL":   100,
	"XRP":   0.6,
	"DOGE":  0.08,
	"ADA":   0.5,
	"AVAX":  35,
	"LINK":  15,
	"MATIC": 0.8,
	"LTC":   90,
	"SHIB":  0.000025,
	"UNI":   7,
	"WBTC":  60000,
	"DAI":   1.0,
	"ATOM":  12,
	"DOT":   6,
	"ARB":   1.2,
	"OP":    2.5,
	"NEAR":  3,
	"APE":   4,
	"FIL":   8,
	"FTM":   0.4,
}

// AssetCatalog merges static metadata with prices. The order of metas is
// kept: the first two entries are the default from/to pair.
type AssetCatalog struct {
	metas    []domain.AssetMeta
	balances map[string]float64
	fallback map[string]float64
}

func NewAssetCatalog(metas []domain.AssetMeta, balances map[string]float64) *AssetCatalog {
	return &AssetCatalog{metas: metas, balances: balances, fallback: FallbackPrices}
}

func (c *AssetCatalog) Build(quotes []domain.PriceQuote) []domain.Asset {
	byCurrency := make(map[string]float64, len(quotes))
	for _, q := range quotes {
		key := strings.ToUpper(q.Currency)
		if _, seen := byCurrency[key]; !seen {
			byCurrency[key] = q.Price
		}
	}
	out := make([]domain.Asset, 0, len(c.metas))
	for _, m := range c.metas {
		price, ok := byCurrency[strings.ToUpper(m.Symbol)]
		if !ok {
			price = c.fallback[m.Symbol]
		}
		out = append(out, domain.Asset{
			Symbol:  m.Symbol,
			Name:    m.Name,
			Price:   price,
			Balance: c.balances[m.Symbol],
			Icon:    m.Logo,
		})
	}
	return out
}

func (c *AssetCatalog) Len() int { return len(c.metas) }

// LookupAsset finds an asset by symbol, case-insensitively.
func LookupAsset(assets []domain.Asset, symbol string) (domain.Asset, bool) {
	for _, a := range assets {
		if strings.EqualFold(a.Symbol, symbol) {
			return a, true
		}
	}
	return domain.Asset{}, false
}

// AvailableAssets lists the assets selectable on one side given what the
// other side holds.
func AvailableAssets(assets []domain.Asset, other *domain.Asset) []domain.Asset {
	out := make([]domain.Asset, 0, len(assets))
	for _, a := range assets {
		if other != nil && a.Symbol == other.Symbol {
			continue
		}
		out = append(out, a)
	}
	return out
}
