package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/skyfinder/skyfinder/internal/amadeus"
	"github.com/skyfinder/skyfinder/internal/config"
)

func newTokenCmd() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Fetch an Amadeus access token with the configured credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Parse()
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			broker := amadeus.NewBroker(amadeus.BrokerConfig{
				BaseURL:      cfg.AmadeusBaseURL,
				ClientID:     cfg.AmadeusAPIKey,
				ClientSecret: cfg.AmadeusAPISecret,
				HTTPClient:   amadeus.NewHTTPClient(cfg.UpstreamTimeout),
				Logger:       logger,
			})

			tok, err := broker.Token(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch token: %w", err)
			}

			out := cmd.OutOrStdout()
			if show {
				fmt.Fprintf(out, "token:   %s\n", tok.Value)
			} else {
				fmt.Fprintf(out, "token:   %s…\n", prefix(tok.Value, 8))
			}
			fmt.Fprintf(out, "expires: %s (in %s)\n",
				tok.ExpiresAt.UTC().Format(time.RFC3339),
				time.Until(tok.ExpiresAt).Round(time.Second))
			return nil
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "print the full token")
	return cmd
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
