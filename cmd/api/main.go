// Package main is the entry point for the CrowdInfra API server.
package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func main() {
	// Prices and areas render as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "crowdinfra",
		Short:         "CrowdInfra API server",
		Long:          "Serves the CrowdInfra REST API: infrastructure demands with votes, comments and proximity search, property listings, reviews and accounts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
	)
	return root
}
