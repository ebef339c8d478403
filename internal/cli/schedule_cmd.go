package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/lockedin/internal/cli/formatter"
	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"schedules"},
		Short:   "Manage session schedules",
	}

	cmd.AddCommand(
		newScheduleAddCmd(app),
		newScheduleListCmd(app),
		newScheduleEditCmd(app),
		newScheduleToggleCmd(app, "enable", true),
		newScheduleToggleCmd(app, "disable", false),
		newScheduleRemoveCmd(app),
	)

	return cmd
}

type scheduleInput struct {
	name, start, end string
	days             int
	daysFlag         *daysValue
}

func newScheduleInput() *scheduleInput {
	in := &scheduleInput{days: domain.AllDays}
	in.daysFlag = newDaysValue(&in.days)
	return in
}

func (in scheduleInput) apply(s *domain.Schedule) error {
	if in.name != "" {
		s.Name = in.name
	}
	if in.start != "" {
		m, err := domain.ParseMinuteOfDay(in.start)
		if err != nil {
			return err
		}
		s.StartMinute = m
	}
	if in.end != "" {
		m, err := domain.ParseMinuteOfDay(in.end)
		if err != nil {
			return err
		}
		s.EndMinute = m
	}
	if in.daysFlag.set {
		s.DaysOfWeek = in.days
	}
	return nil
}

func validateClock(s string) error {
	_, err := domain.ParseMinuteOfDay(s)
	return err
}

// scheduleForm collects the fields that were not given as flags.
func scheduleForm(in *scheduleInput) *huh.Form {
	days := "all"
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Placeholder("Deep work").Value(&in.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().Title("Start (HH:MM)").Placeholder("09:00").Value(&in.start).Validate(validateClock),
			huh.NewInput().Title("End (HH:MM)").Placeholder("17:00").Value(&in.end).Validate(validateClock),
			huh.NewSelect[string]().Title("Days").Value(&days).Validate(in.daysFlag.Set).Options(
				huh.NewOption("Every day", "all"),
				huh.NewOption("Weekdays", "weekdays"),
				huh.NewOption("Weekends", "weekends"),
			),
		),
	).WithTheme(lockedinHuhTheme()).WithShowHelp(false)
}

func newScheduleAddCmd(app *App) *cobra.Command {
	in := newScheduleInput()
	var disabled bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a schedule",
		Long: "Add a schedule. A token tap starts a session lasting the schedule's length,\n" +
			"measured from the tap. An end before the start means the window runs overnight.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.name == "" || in.start == "" || in.end == "" {
				if !app.interactive() {
					return fmt.Errorf("--name, --start and --end are required")
				}
				if err := scheduleForm(in).Run(); err != nil {
					return err
				}
			}

			s := &domain.Schedule{DaysOfWeek: domain.AllDays, Enabled: !disabled}
			if err := in.apply(s); err != nil {
				return err
			}
			h := app.terminalHost(cmd)
			if err := h.Schedules.Create(context.Background(), s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added schedule %s (%s, %s)\n",
				s.Name, formatter.FormatMinutes(s.DurationMinutes()), formatter.TruncID(s.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.name, "name", "", "Schedule name")
	cmd.Flags().StringVar(&in.start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&in.end, "end", "", "End time (HH:MM)")
	cmd.Flags().Var(in.daysFlag, "days", "Days: all, weekdays, weekends or a list like mon,wed,fri")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "Create the schedule disabled")

	return cmd
}

func newScheduleListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			h := app.terminalHost(cmd)
			schedules, err := h.Schedules.List(ctx)
			if err != nil {
				return err
			}
			activeID := ""
			if next, err := h.Schedules.Resolve(ctx, ""); err == nil {
				activeID = next.ID
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderBox("Schedules",
				formatter.FormatScheduleList(schedules, activeID)))
			return nil
		},
	}
}

func newScheduleEditCmd(app *App) *cobra.Command {
	in := newScheduleInput()

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a schedule's name, window or days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			h := app.terminalHost(cmd)
			s, err := resolveSchedule(ctx, h.Schedules, args[0])
			if err != nil {
				return err
			}
			if err := in.apply(s); err != nil {
				return err
			}
			if err := h.Schedules.Update(ctx, s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated schedule %s\n", s.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.name, "name", "", "New name")
	cmd.Flags().StringVar(&in.start, "start", "", "New start time (HH:MM)")
	cmd.Flags().StringVar(&in.end, "end", "", "New end time (HH:MM)")
	cmd.Flags().Var(in.daysFlag, "days", "New days")

	return cmd
}

func newScheduleToggleCmd(app *App, verb string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " ID",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			h := app.terminalHost(cmd)
			s, err := resolveSchedule(ctx, h.Schedules, args[0])
			if err != nil {
				return err
			}
			if err := h.Schedules.SetEnabled(ctx, s.ID, enabled); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schedule %s %sd\n", s.Name, verb)
			return nil
		},
	}
}

func newScheduleRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			h := app.terminalHost(cmd)
			s, err := resolveSchedule(ctx, h.Schedules, args[0])
			if err != nil {
				return err
			}
			if err := h.Schedules.Delete(ctx, s.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed schedule %s\n", s.Name)
			return nil
		},
	}
}
