package application

import (
	"testing"

	"swapquote-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func Test_QuoteSwap(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		amount string
		from   domain.Asset
		to     domain.Asset
		out    string
		usd    string
	}{
		{"eth to btc", "5", assetETH, assetBTC, "0.216667", "13000.00"},
		{"btc to eth", "0.5", assetBTC, assetETH, "11.538462", "30000.00"},
		{"trailing dot", "5.", assetETH, assetBTC, "0.216667", "13000.00"},
		{"leading dot", ".5", assetETH, assetUSDC, "1300.000000", "1300.00"},
		{"empty", "", assetETH, assetBTC, "0", "0"},
		{"zero", "0", assetETH, assetBTC, "0", "0"},
		{"only dot", ".", assetETH, assetBTC, "0", "0"},
		{"not a number", "abc", assetETH, assetBTC, "0", "0"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			q := QuoteSwap(tc.amount, tc.from, tc.to)
			require.Equal(t, tc.out, q.OutputAmount())
			require.Equal(t, tc.usd, q.USDValue())
		})
	}
}

func Test_QuoteSwap_UnpricedDestination(t *testing.T) {
	t.Parallel()
	q := QuoteSwap("2", assetETH, assetFOO)
	require.True(t, q.Valid)
	require.False(t, q.Priced)
	require.Equal(t, "5200.00", q.USDValue())
	require.Equal(t, "0", q.OutputAmount())
}

func Test_QuoteSwap_MatchesRateWithinRounding(t *testing.T) {
	t.Parallel()
	for _, amt := range []string{"1", "0.3", "7.25", "123.456789"} {
		q := QuoteSwap(amt, assetETH, assetBTC)
		f, _ := q.Amount.Float64()
		out, _ := q.Output.Round(6).Float64()
		require.InDelta(t, f*assetETH.Price/assetBTC.Price, out, 1e-6)
	}
}

func Test_ExchangeRate(t *testing.T) {
	t.Parallel()
	r, ok := ExchangeRate(assetBTC, assetETH)
	require.True(t, ok)
	require.InDelta(t, 60000.0/2600.0, r, 1e-12)

	_, ok = ExchangeRate(assetETH, assetFOO)
	require.False(t, ok)
}

func Test_USDValue(t *testing.T) {
	t.Parallel()
	require.Equal(t, "26000.00", USDValue("10", assetETH))
	require.Equal(t, "0", USDValue("-1", assetETH))
}

func Test_FormatPrice(t *testing.T) {
	t.Parallel()
	require.Equal(t, "60000.00", FormatPrice(60000))
	require.Equal(t, "0.60", FormatPrice(0.6))
	require.Equal(t, "0.000025", FormatPrice(0.000025))
	require.Equal(t, "0.08", FormatPrice(0.08))
}

func Test_FormatBalance(t *testing.T) {
	t.Parallel()
	require.Equal(t, "10", FormatBalance(10))
	require.Equal(t, "0.5", FormatBalance(0.5))
}
