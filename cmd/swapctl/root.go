package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"swapquote-service/internal/application"
	"swapquote-service/internal/domain"
	"swapquote-service/internal/infrastructure/assets"
	"swapquote-service/internal/infrastructure/httpx"
	"swapquote-service/internal/infrastructure/provider"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "swapctl",
	Short: "Quote and simulate token swaps from live prices",
	Long: `swapctl fetches token prices, quotes conversions between tokens and runs
simulated swaps against a demo wallet.

Examples:
  swapctl prices
  swapctl assets
  swapctl quote 5 ETH to BTC
  swapctl swap max USDC to ETH --yes`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().String("feed", "", "Price feed: http or fake")
	_ = viper.BindPFlag("price_feed", rootCmd.PersistentFlags().Lookup("feed"))
}

type cliConfig struct {
	PriceFeed    string
	PriceFeedURL string
	PriceTimeout time.Duration
	SettleDelay  time.Duration
}

// loadConfig reads SWAPQUOTE_* variables and an optional .swapquote.yaml.
func loadConfig() cliConfig {
	viper.SetConfigName(".swapquote")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	viper.SetDefault("price_feed", "http")
	viper.SetDefault("price_feed_url", provider.DefaultSwitcheoURL)
	viper.SetDefault("price_timeout_ms", 10000)
	viper.SetDefault("settle_delay_ms", 1000)

	viper.SetEnvPrefix("SWAPQUOTE")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()

	return cliConfig{
		PriceFeed:    viper.GetString("price_feed"),
		PriceFeedURL: viper.GetString("price_feed_url"),
		PriceTimeout: time.Duration(viper.GetInt("price_timeout_ms")) * time.Millisecond,
		SettleDelay:  time.Duration(viper.GetInt("settle_delay_ms")) * time.Millisecond,
	}
}

// env is the in-process price pipeline shared by every command.
type env struct {
	cfg     cliConfig
	cache   *application.PriceCache
	catalog *application.AssetCatalog
}

func newEnv() (*env, error) {
	cfg := loadConfig()
	var feed application.PriceFeed
	switch cfg.PriceFeed {
	case "fake":
		feed = provider.NewFake(nil)
	case "http", "":
		feed = provider.NewSwitcheoFeed(cfg.PriceFeedURL, &httpx.Client{HTTP: &http.Client{}})
	default:
		return nil, fmt.Errorf("unknown price feed %q", cfg.PriceFeed)
	}
	metas, balances, err := assets.Load()
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:     cfg,
		cache:   application.NewPriceCache(feed, application.WithFetchTimeout(cfg.PriceTimeout)),
		catalog: application.NewAssetCatalog(metas, balances),
	}, nil
}

// assets fetches prices and builds the catalog. A stale or failed fetch
// is reported as a warning; the fallback table still prices the catalog.
func (e *env) assets(ctx context.Context, jsonOutput bool) []domain.Asset {
	res, err := e.cache.Fetch(ctx, true)
	if !jsonOutput {
		switch {
		case err != nil:
			color.Yellow("Using fallback prices. %s", application.FormatFetchError(err))
		case res.Stale:
			color.Yellow("%s %s", application.MsgUsingCachedPrices, application.FormatFetchError(res.Cause))
		}
	}
	return e.catalog.Build(res.Snapshot.Quotes)
}

func printError(err error) {
	fmt.Printf("\n%s %v\n\n", color.RedString("Error:"), err)
}
