package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/alexanderramin/lockedin/internal/service"
)

// resolveSchedule accepts a full ID or a unique prefix, as printed by
// `schedule list`.
func resolveSchedule(ctx context.Context, schedules service.ScheduleService, ref string) (*domain.Schedule, error) {
	all, err := schedules.List(ctx)
	if err != nil {
		return nil, err
	}
	var match *domain.Schedule
	for _, s := range all {
		if s.ID == ref {
			return s, nil
		}
		if strings.HasPrefix(s.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("schedule id %q is ambiguous", ref)
			}
			match = s
		}
	}
	if match == nil {
		return nil, fmt.Errorf("schedule %s: %w", ref, domain.ErrScheduleNotFound)
	}
	return match, nil
}
