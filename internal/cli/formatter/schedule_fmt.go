package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/lockedin/internal/domain"
)

// FormatScheduleList renders schedules as a table. The first enabled
// schedule is the one a token tap starts; it is marked with an arrow.
func FormatScheduleList(schedules []*domain.Schedule, activeID string) string {
	if len(schedules) == 0 {
		return Dim("No schedules. Add one with 'lockedin schedule add'.") + "\n"
	}
	rows := make([][]string, 0, len(schedules))
	for _, s := range schedules {
		marker := " "
		if s.ID == activeID {
			marker = StyleGreen.Render("→")
		}
		window := fmt.Sprintf("%s–%s", domain.FormatMinuteOfDay(s.StartMinute), domain.FormatMinuteOfDay(s.EndMinute))
		if s.Overnight() {
			window += Dim(" (overnight)")
		}
		rows = append(rows, []string{
			marker,
			TruncID(s.ID),
			s.Name,
			window,
			FormatMinutes(s.DurationMinutes()),
			domain.FormatDaysOfWeek(s.DaysOfWeek),
			EnabledPill(s.Enabled),
		})
	}
	return RenderTable([]string{"", "ID", "NAME", "WINDOW", "LENGTH", "DAYS", "STATE"}, rows)
}

// FormatBlockList renders the block list.
func FormatBlockList(apps []domain.BlockedApp) string {
	if len(apps) == 0 {
		return Dim("Block list is empty. Add apps with 'lockedin block add <package>'.") + "\n"
	}
	rows := make([][]string, 0, len(apps))
	enabled := 0
	for _, a := range apps {
		if a.Enabled {
			enabled++
		}
		rows = append(rows, []string{a.DisplayName, Dim(a.PackageName), EnabledPill(a.Enabled)})
	}
	var b strings.Builder
	b.WriteString(RenderTable([]string{"APP", "PACKAGE", "STATE"}, rows))
	b.WriteString(Dim(fmt.Sprintf("%d of %d apps blocked during sessions", enabled, len(apps))))
	b.WriteString("\n")
	return b.String()
}
