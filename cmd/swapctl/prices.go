package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"swapquote-service/internal/application"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var freshPrices bool

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Show the latest token prices",
	Long: `Fetch token prices from the configured feed.

Examples:
  swapctl prices
  swapctl prices --fresh`,
	Args: cobra.NoArgs,
	RunE: runPrices,
}

func init() {
	rootCmd.AddCommand(pricesCmd)
	pricesCmd.Flags().BoolVar(&freshPrices, "fresh", false, "Bypass the cache")
}

func runPrices(cmd *cobra.Command, _ []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	e, err := newEnv()
	if err != nil {
		printError(err)
		return err
	}
	board := application.NewPriceBoard(e.cache, nil)

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching prices..."
		s.Start()
	}
	st := board.Load(context.Background(), !freshPrices)
	if !jsonOutput {
		s.Stop()
	}

	if st.Error != "" {
		err := fmt.Errorf("%s", st.Error)
		printError(err)
		return err
	}
	if jsonOutput {
		data, _ := json.MarshalIndent(st, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Println("\n" + strings.Repeat("=", 48))
	color.Green("                 TOKEN PRICES")
	fmt.Println(strings.Repeat("=", 48))
	for _, p := range st.Prices {
		fmt.Printf("  %-10s  %20s USD\n", color.YellowString(p.Currency), application.FormatPrice(p.Price))
	}
	fmt.Println(strings.Repeat("=", 48))
	if st.Warning != "" {
		color.Yellow("%s", st.Warning)
	}
	if st.LastUpdated != nil {
		fmt.Printf("\n%d prices, updated %s\n\n", len(st.Prices), st.LastUpdated.Local().Format(time.TimeOnly))
	}
	return nil
}
