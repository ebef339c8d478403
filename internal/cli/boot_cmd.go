package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newBootCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "boot",
		Short: "Repair state after a restart (close interrupted sessions, check the streak)",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.terminalHost(cmd).Reconcile(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Closed %d interrupted session(s)", report.ClosedRows)
			if report.StreakReset {
				fmt.Fprint(cmd.OutOrStdout(), "; streak reset")
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}
