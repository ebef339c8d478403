package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/lockedin/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStreakCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the daily completion streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			h := app.terminalHost(cmd)
			s, err := h.Streaks.Get(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatStreak(s, time.Now()))

			m, err := h.Streaks.UnshownMilestone(ctx)
			if err != nil {
				return err
			}
			if m > 0 {
				fmt.Fprintln(out, formatter.StyleYellow.Render(formatter.MilestoneMessage(m)))
				if err := h.Streaks.MarkMilestoneShown(ctx, m); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
