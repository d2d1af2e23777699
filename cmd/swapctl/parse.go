package main

import (
	"fmt"
	"regexp"
	"strings"
)

type swapArgs struct {
	Amount string
	Max    bool
	From   string
	To     string
}

var swapPattern = regexp.MustCompile(`^(MAX|\d+\.?\d*|\.\d+)\s+([A-Z0-9]+)\s+TO\s+([A-Z0-9]+)$`)

// parseSwapArgs parses "<amount|max> <FROM> to <TO>", case-insensitively.
func parseSwapArgs(args []string) (swapArgs, error) {
	command := strings.ToUpper(strings.Join(strings.Fields(strings.Join(args, " ")), " "))
	m := swapPattern.FindStringSubmatch(command)
	if m == nil {
		return swapArgs{}, fmt.Errorf("invalid format. Expected: '<amount|max> <token> to <token>' (e.g. '5 ETH to BTC')")
	}
	out := swapArgs{From: m[2], To: m[3]}
	if m[1] == "MAX" {
		out.Max = true
	} else {
		out.Amount = m[1]
	}
	return out, nil
}
