package main

import (
	"fmt"

	"practice_tracker/internal/app/service"
	"practice_tracker/internal/domain/repository"
	"practice_tracker/internal/platform/cache"
	"practice_tracker/internal/platform/database"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <user-id>",
		Short: "Print a user's dashboard statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := loadEnv()
			ctx := cmd.Context()
			db, err := database.Connect(ctx, cfg, log.WithPrefix("DB"))
			if err != nil {
				return err
			}
			defer database.Close(db, log.WithPrefix("DB"))

			dashboard := service.NewDashboardService(
				repository.NewPgProblemRepository(db),
				repository.NewPgAttemptRepository(db),
				cache.Noop{},
				log,
			)
			stats, err := dashboard.GetStats(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total problems:  %d\n", stats.TotalProblems)
			fmt.Fprintf(out, "Solved:          %d\n", stats.Solved)
			fmt.Fprintf(out, "In progress:     %d\n", stats.InProgress)
			fmt.Fprintf(out, "Success rate:    %d%%\n", stats.SuccessRate)
			fmt.Fprintf(out, "Completed today: %d\n", stats.CompletedToday)
			return nil
		},
	}
}
