package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/skyfinder/skyfinder/internal/auth"
	"github.com/skyfinder/skyfinder/internal/model"
)

func newSignTokenCmd() *cobra.Command {
	var (
		userID string
		email  string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sign-token",
		Short: "Sign a development bearer token with AUTH_JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("AUTH_JWT_SECRET")
			if secret == "" {
				return errors.New("AUTH_JWT_SECRET is not set")
			}
			if userID == "" {
				return errors.New("--user is required")
			}

			tok, err := auth.SignToken(secret, model.Identity{UserID: userID, Email: email, Role: role}, ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "subject (user ID)")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&role, "role", "authenticated", "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
