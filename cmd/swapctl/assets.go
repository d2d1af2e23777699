package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"swapquote-service/internal/application"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var assetsCmd = &cobra.Command{
	Use:     "assets",
	Aliases: []string{"tokens", "ls"},
	Short:   "List tradable tokens with price and wallet balance",
	Args:    cobra.NoArgs,
	RunE:    runAssets,
}

func init() {
	rootCmd.AddCommand(assetsCmd)
}

func runAssets(cmd *cobra.Command, _ []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	e, err := newEnv()
	if err != nil {
		printError(err)
		return err
	}
	list := e.assets(context.Background(), jsonOutput)

	if jsonOutput {
		data, _ := json.MarshalIndent(list, "", "  ")
		fmt.Println(string(data))
		return nil
	}
	fmt.Println("\n" + strings.Repeat("=", 72))
	color.Green("                              TOKENS")
	fmt.Println(strings.Repeat("=", 72))
	for _, a := range list {
		price := application.FormatPrice(a.Price)
		if a.Price == 0 {
			price = color.HiBlackString("no price")
		}
		fmt.Printf("  %-8s %-18s %16s  balance %s\n",
			color.YellowString(a.Symbol), a.Name, price, application.FormatBalance(a.Balance))
	}
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("\nTotal: %d tokens\n\n", len(list))
	return nil
}
