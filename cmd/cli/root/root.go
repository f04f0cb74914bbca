package root

import (
	"github.com/spf13/cobra"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:           "pwasset",
	Short:         "Park asset ledger CLI",
	Long:          "Command line interface for the park asset ledger API: list, add and export assets, transfers and disposals.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Optional helper to return the RootCmd
func GetRoot() *cobra.Command {
	return RootCmd
}
