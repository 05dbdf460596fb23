package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "skyctl",
		Short: "Operator tooling for the SkyFinder API",
		Long: `skyctl manages the secrets the SkyFinder API expects: it hashes
internal service keys, signs development bearer tokens, and checks
that the configured Amadeus credentials can obtain an access token.`,
		SilenceUsage: true,
	}
	root.AddCommand(newHashKeyCmd(), newSignTokenCmd(), newTokenCmd(), newConfigCmd())
	return root
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("skyctl failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
