package main

import (
	"fmt"
	"os"

	"practice_tracker/internal/platform/config"
	"practice_tracker/internal/platform/logging"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "trackerctl",
		Short:        "Operator tool for the practice tracker service",
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	rootCmd.AddCommand(newTokenCmd(), newMigrateCmd(), newStatsCmd())
	return rootCmd
}

// loadEnv reads the same configuration as the server.
func loadEnv() (*config.Config, logging.Logger) {
	cfg := config.Load()
	log := logging.NewStderr(logging.ParseLevel(cfg.LogLevel, cfg.IsProduction()))
	return cfg, log
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
