package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skyfinder/skyfinder/internal/auth"
)

func newHashKeyCmd() *cobra.Command {
	var generate bool

	cmd := &cobra.Command{
		Use:   "hash-key [key]",
		Short: "Hash an internal service key for INTERNAL_KEY_HASH",
		Long: `Hash an internal service key with argon2id. With --generate a new
random key is created and printed once alongside its hash.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if generate {
				if len(args) > 0 {
					return errors.New("--generate takes no key argument")
				}
				key, err := auth.GenerateInternalKey()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "key:  %s\n", key.Plaintext)
				fmt.Fprintf(out, "hash: %s\n", key.Hash)
				return nil
			}

			if len(args) == 0 || args[0] == "" {
				return errors.New("a key argument or --generate is required")
			}
			hash, err := auth.HashKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, hash)
			return nil
		},
	}
	cmd.Flags().BoolVar(&generate, "generate", false, "generate a new random key")
	return cmd
}
