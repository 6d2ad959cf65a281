package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/twentyhard/twentyhard/internal/app"
)

func SweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run auto-fail and day locking for every stored challenge",
		Long: "Loads every challenge through the normal enforcement path so missed " +
			"days are failed and closed days are locked even for users who stopped " +
			"opening the app. Safe to run from cron at any interval.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				res, err := a.ChallengeService.Sweep(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("processed %d challenges, %d errors\n", res.Processed, res.Errors)
				if res.Errors > 0 {
					return fmt.Errorf("sweep finished with %d errors", res.Errors)
				}
				return nil
			})
		},
	}
}
