package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/lockedin/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSetupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "First-run setup state",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show whether setup is complete",
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := app.terminalHost(cmd).Setup.Get(context.Background())
				if err != nil {
					return err
				}
				if st.Completed {
					when := ""
					if st.CompletedAt != nil {
						when = " on " + st.CompletedAt.Local().Format("2006-01-02")
					}
					fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("Setup complete")+formatter.Dim(when))
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleYellow.Render("Setup incomplete")+
					formatter.Dim(": add a schedule and blocked apps, then run 'lockedin setup complete'"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "complete",
			Short: "Mark setup as complete so 'run' engages blocking",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := context.Background()
				h := app.terminalHost(cmd)
				if err := h.Setup.Complete(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Setup complete")
				if n, err := h.Blocklist.EnabledCount(ctx); err == nil && n == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleYellow.Render("No apps are blocked yet."))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Mark setup as incomplete",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.terminalHost(cmd).Setup.Reset(context.Background()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Setup reset")
				return nil
			},
		},
	)

	return cmd
}
