package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/lockedin/internal/cli/formatter"
	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	var chart bool
	var recent int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show time saved and blocked attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			h := app.terminalHost(cmd)
			now := time.Now()

			summary, err := h.Ledger.Summary(ctx, now)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.RenderBox("Statistics", formatter.FormatStats(summary)))

			if chart {
				fmt.Fprintln(out, formatter.Header("Minutes saved, last 7 days"))
				fmt.Fprintln(out, formatter.RenderSavedChart(summary.Daily, 56, 10))
			}

			if recent > 0 {
				stats, err := h.Ledger.List(ctx, recent)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.RenderBox("Recent sessions", recentTable(stats, now)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&chart, "chart", false, "Draw a bar chart of time saved per day")
	cmd.Flags().IntVar(&recent, "recent", 0, "Also list the N most recent sessions")

	return cmd
}

func recentTable(stats []*domain.SessionStatistic, now time.Time) string {
	if len(stats) == 0 {
		return formatter.Dim("No sessions yet.") + "\n"
	}
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		outcome := formatter.StyleGreen.Render("completed")
		switch {
		case s.IsOpen():
			outcome = formatter.StyleYellow.Render("running")
		case !s.CompletedSuccessfully:
			outcome = formatter.Dim("ended early")
		}
		rows = append(rows, []string{
			formatter.TruncID(s.ID),
			formatter.HumanTimestamp(s.StartTime, now),
			formatter.FormatMinutes(int(s.Duration(now) / time.Minute)),
			strconv.Itoa(s.BlockedAttempts),
			domain.FormatTimeSaved(s.TimeSavedSeconds),
			outcome,
		})
	}
	return formatter.RenderTable([]string{"ID", "STARTED", "LENGTH", "BLOCKED", "SAVED", "OUTCOME"}, rows)
}
