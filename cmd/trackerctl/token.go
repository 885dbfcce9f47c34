package main

import (
	"fmt"
	"time"

	"practice_tracker/internal/common/security"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		secret string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a bearer token for a user id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := []byte(secret)
			exp := ttl
			if secret == "" || exp == 0 {
				cfg, _ := loadEnv()
				if secret == "" {
					key = cfg.JWTKey
				}
				if exp == 0 {
					exp = cfg.JWTExp
				}
			}
			token, err := security.NewJWTIdentity(key, exp).GenerateToken(args[0])
			if err != nil {
				return fmt.Errorf("mint token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "HS256 signing secret (defaults to JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_EXPIRATION_HOURS)")
	return cmd
}
