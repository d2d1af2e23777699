package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"swapquote-service/internal/application"
	"swapquote-service/internal/domain"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount|max> <source-token> to <dest-token>",
	Short: "Quote a conversion without swapping",
	Long: `Quote how much of one token an amount of another buys, using USD prices.

Examples:
  swapctl quote 5 ETH to BTC
  swapctl quote max USDC to ATOM`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}

// prepareSession parses args and loads them into a fresh session.
func prepareSession(ctx context.Context, e *env, args []string, settler application.Settler, jsonOutput bool) (*application.SwapSession, error) {
	req, err := parseSwapArgs(args)
	if err != nil {
		return nil, err
	}
	if req.From == req.To {
		return nil, errors.New(application.MsgSameToken)
	}
	s := application.NewSwapSession("cli", settler)
	s.SetAssets(e.assets(ctx, jsonOutput))

	from, ok := s.Asset(req.From)
	if !ok {
		return nil, fmt.Errorf("%w: %s (try: swapctl assets)", domain.ErrUnknownAsset, req.From)
	}
	to, ok := s.Asset(req.To)
	if !ok {
		return nil, fmt.Errorf("%w: %s (try: swapctl assets)", domain.ErrUnknownAsset, req.To)
	}
	if err := s.SelectFrom(from); err != nil {
		return nil, err
	}
	if err := s.SelectTo(to); err != nil {
		return nil, err
	}
	if req.Max {
		err = s.MaxAmount()
	} else {
		_, err = s.SetAmount(req.Amount)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func runQuote(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	e, err := newEnv()
	if err != nil {
		printError(err)
		return err
	}
	s, err := prepareSession(context.Background(), e, args, nil, jsonOutput)
	if err != nil {
		printError(err)
		return err
	}
	st := s.Snapshot()
	rate, hasRate := s.Rate()

	if jsonOutput {
		out := map[string]any{"session": st}
		if hasRate {
			out["rate"] = rate
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return nil
	}
	printQuote(st, rate, hasRate)
	return nil
}

func printQuote(st application.SessionState, rate float64, hasRate bool) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                         QUOTE")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("  You pay:     %s %s  (≈ $%s)\n", st.InputAmount, color.YellowString(st.From.Symbol), st.USDValue)
	fmt.Printf("  You receive: %s %s\n", st.OutputAmount, color.YellowString(st.To.Symbol))
	if hasRate {
		fmt.Printf("  Rate:        1 %s = %s %s\n", st.From.Symbol, application.FormatPrice(rate), st.To.Symbol)
	}
	fmt.Printf("  Balance:     %s %s\n", application.FormatBalance(st.From.Balance), st.From.Symbol)
	fmt.Println(strings.Repeat("=", 60))
	if st.ValidationMessage != "" {
		color.Red("  %s", st.ValidationMessage)
	}
	fmt.Println()
}
