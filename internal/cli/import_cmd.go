package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/lockedin/internal/cli/formatter"
	"github.com/alexanderramin/lockedin/internal/importer"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import schedules and blocked apps from a YAML or JSON file",
		Long: `Import schedules and blocked apps from a YAML or JSON file.

Schedules are matched by name: an existing schedule with the same name is
updated, anything else is created. Blocked apps are matched by package.

Example file:
  schedules:
    - name: Work
      start: "09:00"
      end: "17:00"
      days: weekdays
  blocked_apps:
    - package: com.instagram.android
      name: Instagram`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := importer.LoadImportSchema(args[0])
			if err != nil {
				return err
			}
			if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", e)
				}
				return fmt.Errorf("%s: %d validation error(s)", args[0], len(errs))
			}
			plan, err := importer.Convert(schema)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "Would import %d schedule(s) and %d blocked app(s)\n",
					len(plan.Schedules), len(plan.BlockedApps))
				return nil
			}

			ctx := context.Background()
			h := app.terminalHost(cmd)
			res, err := importer.Apply(ctx, plan, h.Schedules, h.Blocklist)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported %d schedule(s) (%d new, %d updated) and %d blocked app(s)\n",
				res.SchedulesCreated+res.SchedulesUpdated, res.SchedulesCreated, res.SchedulesUpdated, res.AppsImported)
			if res.AppsImported > 0 {
				warnIfSessionOpen(ctx, app, h, out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file without writing anything")

	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write schedules and blocked apps in the import format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := app.terminalHost(cmd)
			schema, err := importer.Export(context.Background(), h.Schedules, h.Blocklist)
			if err != nil {
				return err
			}
			if len(schema.Schedules) == 0 && len(schema.BlockedApps) == 0 {
				return errors.New("nothing to export: no schedules or blocked apps configured")
			}
			data, err := schema.Marshal()
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("Exported to "+output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to FILE instead of stdout")

	return cmd
}
