package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"carteira/internal/shared/auth"
)

func tokenCmd() *cobra.Command {
	var userID, email string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			verifier := auth.NewVerifier(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)
			token, err := verifier.Issue(userID, email, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user ID placed in the token subject")
	cmd.Flags().StringVar(&email, "email", "", "optional email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
