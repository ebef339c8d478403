package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/alexanderramin/lockedin/internal/service"
)

// Plan is a validated import converted into domain values.
type Plan struct {
	Schedules   []*domain.Schedule
	BlockedApps []domain.BlockedApp
}

// Result counts what Apply changed.
type Result struct {
	SchedulesCreated int
	SchedulesUpdated int
	AppsImported     int
}

// Convert transforms a validated ImportSchema into domain objects.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) (*Plan, error) {
	plan := &Plan{
		Schedules:   make([]*domain.Schedule, 0, len(schema.Schedules)),
		BlockedApps: make([]domain.BlockedApp, 0, len(schema.BlockedApps)),
	}
	for _, s := range schema.Schedules {
		start, err := domain.ParseMinuteOfDay(s.Start)
		if err != nil {
			return nil, fmt.Errorf("schedule %q: %w", s.Name, err)
		}
		end, err := domain.ParseMinuteOfDay(s.End)
		if err != nil {
			return nil, fmt.Errorf("schedule %q: %w", s.Name, err)
		}
		days, err := parseDays(s.Days)
		if err != nil {
			return nil, fmt.Errorf("schedule %q: %w", s.Name, err)
		}
		plan.Schedules = append(plan.Schedules, &domain.Schedule{
			Name:        strings.TrimSpace(s.Name),
			StartMinute: start,
			EndMinute:   end,
			DaysOfWeek:  days,
			Enabled:     domain.BoolFromPtrWithDefault(true, s.Enabled),
		})
	}
	for _, a := range schema.BlockedApps {
		pkg := strings.TrimSpace(a.Package)
		plan.BlockedApps = append(plan.BlockedApps, domain.BlockedApp{
			PackageName: pkg,
			DisplayName: domain.CoalesceStr(strings.TrimSpace(a.Name), pkg),
			Enabled:     domain.BoolFromPtrWithDefault(true, a.Enabled),
		})
	}
	return plan, nil
}

// Apply writes the plan through the services. A schedule whose name matches
// an existing one (case-insensitive) replaces its times, days and enabled
// flag; blocked apps are upserted by package.
func Apply(ctx context.Context, plan *Plan, schedules service.ScheduleService, blocklist service.BlocklistService) (*Result, error) {
	existing, err := schedules.List(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*domain.Schedule, len(existing))
	for _, s := range existing {
		byName[strings.ToLower(s.Name)] = s
	}

	res := &Result{}
	for _, s := range plan.Schedules {
		if cur, ok := byName[strings.ToLower(s.Name)]; ok {
			cur.StartMinute = s.StartMinute
			cur.EndMinute = s.EndMinute
			cur.DaysOfWeek = s.DaysOfWeek
			cur.Enabled = s.Enabled
			if err := schedules.Update(ctx, cur); err != nil {
				return res, fmt.Errorf("updating schedule %q: %w", s.Name, err)
			}
			res.SchedulesUpdated++
			continue
		}
		if err := schedules.Create(ctx, s); err != nil {
			return res, fmt.Errorf("creating schedule %q: %w", s.Name, err)
		}
		byName[strings.ToLower(s.Name)] = s
		res.SchedulesCreated++
	}

	for _, a := range plan.BlockedApps {
		if err := blocklist.Add(ctx, a.PackageName, a.DisplayName); err != nil {
			return res, fmt.Errorf("adding %s: %w", a.PackageName, err)
		}
		if !a.Enabled {
			if err := blocklist.SetEnabled(ctx, a.PackageName, false); err != nil {
				return res, fmt.Errorf("disabling %s: %w", a.PackageName, err)
			}
		}
		res.AppsImported++
	}
	return res, nil
}

// Export captures the current schedules and blocklist as an ImportSchema
// that Convert and Apply can read back.
func Export(ctx context.Context, schedules service.ScheduleService, blocklist service.BlocklistService) (*ImportSchema, error) {
	list, err := schedules.List(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := blocklist.List(ctx)
	if err != nil {
		return nil, err
	}
	schema := &ImportSchema{}
	for _, s := range list {
		enabled := s.Enabled
		schema.Schedules = append(schema.Schedules, ScheduleImport{
			Name:    s.Name,
			Start:   domain.FormatMinuteOfDay(s.StartMinute),
			End:     domain.FormatMinuteOfDay(s.EndMinute),
			Days:    domain.FormatDaysOfWeek(s.DaysOfWeek),
			Enabled: &enabled,
		})
	}
	for _, a := range apps {
		enabled := a.Enabled
		schema.BlockedApps = append(schema.BlockedApps, BlockedAppImport{
			Package: a.PackageName,
			Name:    a.DisplayName,
			Enabled: &enabled,
		})
	}
	return schema, nil
}
