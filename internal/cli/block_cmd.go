package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderramin/lockedin/internal/cli/formatter"
	"github.com/alexanderramin/lockedin/internal/host"
	"github.com/spf13/cobra"
)

func newBlockCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Manage the apps blocked during sessions",
	}

	cmd.AddCommand(
		newBlockAddCmd(app),
		newBlockListCmd(app),
		newBlockToggleCmd(app, "enable", true),
		newBlockToggleCmd(app, "disable", false),
		newBlockRemoveCmd(app),
	)

	return cmd
}

// warnIfSessionOpen notes when a running engine will see a block-list edit.
// The engine polls the store every StoreWatchInterval; with polling off it
// only reloads when the next session starts.
func warnIfSessionOpen(ctx context.Context, app *App, h *host.Host, w io.Writer) {
	open, err := h.Ledger.Active(ctx)
	if err != nil || open == nil {
		return
	}
	msg := "A session is running; the change applies from the next session."
	if d := app.Config.StoreWatchInterval; d > 0 {
		msg = fmt.Sprintf("A session is running; the engine picks up the change within %s.", d)
	}
	fmt.Fprintln(w, formatter.StyleYellow.Render(msg))
}

func newBlockAddCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add PACKAGE",
		Short: "Block an app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			h := app.terminalHost(cmd)
			if err := h.Blocklist.Add(ctx, args[0], name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Blocking %s\n", args[0])
			warnIfSessionOpen(ctx, app, h, cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the package)")

	return cmd
}

func newBlockListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List blocked apps",
		RunE: func(cmd *cobra.Command, args []string) error {
			apps, err := app.terminalHost(cmd).Blocklist.List(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderBox("Block list", formatter.FormatBlockList(apps)))
			return nil
		},
	}
}

func newBlockToggleCmd(app *App, verb string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " PACKAGE",
		Short: fmt.Sprintf("%s blocking for an app", verb),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			h := app.terminalHost(cmd)
			if err := h.Blocklist.SetEnabled(ctx, args[0], enabled); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %sd\n", args[0], verb)
			warnIfSessionOpen(ctx, app, h, cmd.OutOrStdout())
			return nil
		},
	}
}

func newBlockRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PACKAGE",
		Short: "Remove an app from the block list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			h := app.terminalHost(cmd)
			if err := h.Blocklist.Remove(ctx, args[0]); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			warnIfSessionOpen(ctx, app, h, cmd.OutOrStdout())
			return nil
		},
	}
}
