package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/lockedin/internal/domain"
)

// ValidateImportSchema checks the schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error
	if len(schema.Schedules) == 0 && len(schema.BlockedApps) == 0 {
		errs = append(errs, fmt.Errorf("import file defines no schedules and no blocked_apps"))
	}
	errs = append(errs, validateSchedules(schema.Schedules)...)
	errs = append(errs, validateBlockedApps(schema.BlockedApps)...)
	return errs
}

func validateSchedules(schedules []ScheduleImport) []error {
	var errs []error
	names := make(map[string]bool)
	for i, s := range schedules {
		field := fmt.Sprintf("schedules[%d]", i)
		name := strings.TrimSpace(s.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", field))
		} else if names[strings.ToLower(name)] {
			errs = append(errs, fmt.Errorf("%s.name: duplicate schedule %q", field, name))
		}
		names[strings.ToLower(name)] = true

		if s.Start == "" {
			errs = append(errs, fmt.Errorf("%s.start is required", field))
		} else if _, err := domain.ParseMinuteOfDay(s.Start); err != nil {
			errs = append(errs, fmt.Errorf("%s.start: %w", field, err))
		}
		if s.End == "" {
			errs = append(errs, fmt.Errorf("%s.end is required", field))
		} else if _, err := domain.ParseMinuteOfDay(s.End); err != nil {
			errs = append(errs, fmt.Errorf("%s.end: %w", field, err))
		}
		if _, err := parseDays(s.Days); err != nil {
			errs = append(errs, fmt.Errorf("%s.days: %w", field, err))
		}
	}
	return errs
}

func validateBlockedApps(apps []BlockedAppImport) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, a := range apps {
		field := fmt.Sprintf("blocked_apps[%d]", i)
		pkg := strings.TrimSpace(a.Package)
		switch {
		case pkg == "":
			errs = append(errs, fmt.Errorf("%s.package is required", field))
		case strings.ContainsAny(pkg, " \t"):
			errs = append(errs, fmt.Errorf("%s.package: %q: %w", field, a.Package, domain.ErrInvalidPackage))
		case seen[pkg]:
			errs = append(errs, fmt.Errorf("%s.package: duplicate package %q", field, pkg))
		}
		seen[pkg] = true
	}
	return errs
}

func parseDays(s string) (int, error) {
	if strings.EqualFold(strings.TrimSpace(s), "never") {
		return 0, nil
	}
	return domain.ParseDaysOfWeek(s)
}
