package main

import (
	"fmt"

	"practice_tracker/internal/platform/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := loadEnv()
			ctx := cmd.Context()
			db, err := database.Connect(ctx, cfg, log.WithPrefix("DB"))
			if err != nil {
				return err
			}
			defer database.Close(db, log.WithPrefix("DB"))

			if err := database.Migrate(ctx, db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema applied.")
			return nil
		},
	}
}
