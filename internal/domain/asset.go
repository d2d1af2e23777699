package domain

// AssetMeta is the static description of a tradable asset.
type AssetMeta struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
}

// Asset is derived from AssetMeta plus a price and a balance.
// It is rebuilt whenever the price source changes and never mutated in place.
type Asset struct {
	Symbol  string  `json:"symbol"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Balance float64 `json:"balance"`
	Icon    string  `json:"icon"`
}
