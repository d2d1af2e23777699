package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"swapquote-service/internal/application"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var noConfirm bool

var swapCmd = &cobra.Command{
	Use:   "swap <amount|max> <source-token> to <dest-token>",
	Short: "Run a simulated swap against the demo wallet",
	Long: `Validate and settle a simulated swap. Nothing is sent on chain.

Examples:
  swapctl swap 5 ETH to BTC
  swapctl swap max USDC to ETH --yes`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)
	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	e, err := newEnv()
	if err != nil {
		printError(err)
		return err
	}
	ctx := context.Background()
	s, err := prepareSession(ctx, e, args, application.NewSimulatedSettler(e.cfg.SettleDelay), jsonOutput)
	if err != nil {
		printError(err)
		return err
	}
	if msg := s.Validate(); msg != "" {
		err := errors.New(msg)
		printError(err)
		return err
	}

	if !jsonOutput {
		rate, hasRate := s.Rate()
		printQuote(s.Snapshot(), rate, hasRate)
	}
	if !noConfirm && !jsonOutput {
		fmt.Print("Proceed with swap? [y/N]: ")
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Swap cancelled.")
			return nil
		}
	}

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		sp.Suffix = " Settling swap..."
		sp.Start()
	}
	receipt, err := s.Submit(ctx)
	if !jsonOutput {
		sp.Stop()
	}
	if err != nil {
		var vErr *application.ValidationError
		if !errors.As(err, &vErr) {
			err = errors.New(application.MsgSwapFailed)
		}
		printError(err)
		return err
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(receipt, "", "  ")
		fmt.Println(string(data))
		return nil
	}
	color.Green("\nSwap completed")
	fmt.Printf("  Receipt:  %s\n", receipt.ID)
	fmt.Printf("  Swapped:  %s %s -> %s %s  (≈ $%s)\n\n",
		receipt.FromAmount, receipt.FromSymbol, receipt.ToAmount, receipt.ToSymbol, receipt.USDValue)
	return nil
}
