package main

import (
	"fmt"
	"os"

	"github.com/crucial707/pwasset/cmd/cli/auth"
	"github.com/crucial707/pwasset/cmd/cli/ledger"
	"github.com/crucial707/pwasset/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	ledger.InitLedgers(rootCmd)

	// Execute the root Cobra command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
