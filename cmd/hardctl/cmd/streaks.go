package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"github.com/twentyhard/twentyhard/internal/app"
)

func StreaksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "streaks <user-id>",
		Short: "Recompute and print a user's streak status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				status, err := a.ChallengeService.Status(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(status)
			})
		},
	}
}
