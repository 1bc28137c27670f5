package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/simglobe/simglobe/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "simglobe",
		Short: "Links store products to prediction-market risks and sizes hedges",
		Long: `simglobe reads prediction markets, scores how strongly each one threatens
a merchant's products and suggests how much to hedge against it.

Run "simglobe serve" for the HTTP API used by the dashboard and the browser
extension, or "simglobe match" to score a product catalog from the terminal.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newServeCmd(), newMatchCmd())
	return root
}
