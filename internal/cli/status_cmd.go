package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/lockedin/internal/cli/formatter"
	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/alexanderramin/lockedin/internal/repository"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session, streak and setup state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			h := app.terminalHost(cmd)

			var v formatter.StatusView
			var err error
			if v.Open, err = h.Ledger.Active(ctx); err != nil {
				return err
			}
			if v.Streak, err = h.Streaks.Get(ctx); err != nil {
				return err
			}
			if v.Setup, err = h.Setup.Get(ctx); err != nil {
				return err
			}
			if v.BlockedApp, err = h.Blocklist.EnabledCount(ctx); err != nil {
				return err
			}
			v.Token, err = h.Tokens.Get(ctx)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			v.Schedule, err = h.Schedules.Resolve(ctx, "")
			if err != nil && !errors.Is(err, domain.ErrNoScheduleConfigured) {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderBox("lockedin", formatter.FormatStatus(v, time.Now())))
			return nil
		},
	}
}
