package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay bounds StartMinute and EndMinute: both lie in [0, MinutesPerDay).
const MinutesPerDay = 24 * 60

// AllDays is the DaysOfWeek mask with every weekday set.
const AllDays = 0x7F

type Schedule struct {
	ID          string
	Name        string
	StartMinute int
	EndMinute   int
	DaysOfWeek  int // bit 0 = Sunday ... bit 6 = Saturday
	Enabled     bool
	CreatedAt   time.Time
}

// Validate checks the minute-of-day bounds and the weekday mask.
func (s *Schedule) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("schedule name is required: %w", ErrInvalidSchedule)
	}
	if s.StartMinute < 0 || s.StartMinute >= MinutesPerDay {
		return fmt.Errorf("start minute %d out of range: %w", s.StartMinute, ErrInvalidSchedule)
	}
	if s.EndMinute < 0 || s.EndMinute >= MinutesPerDay {
		return fmt.Errorf("end minute %d out of range: %w", s.EndMinute, ErrInvalidSchedule)
	}
	if s.DaysOfWeek < 0 || s.DaysOfWeek > AllDays {
		return fmt.Errorf("days-of-week mask %d out of range: %w", s.DaysOfWeek, ErrInvalidSchedule)
	}
	return nil
}

// Overnight reports whether the schedule wraps past midnight.
func (s *Schedule) Overnight() bool {
	return s.EndMinute < s.StartMinute
}

// DurationMinutes returns the schedule length in minutes. An overnight
// schedule runs (1440-start)+end minutes; start == end is a full day.
func (s *Schedule) DurationMinutes() int {
	switch {
	case s.EndMinute > s.StartMinute:
		return s.EndMinute - s.StartMinute
	case s.EndMinute < s.StartMinute:
		return (MinutesPerDay - s.StartMinute) + s.EndMinute
	default:
		return MinutesPerDay
	}
}

// EffectiveDuration is DurationMinutes as a time.Duration.
func (s *Schedule) EffectiveDuration() time.Duration {
	return time.Duration(s.DurationMinutes()) * time.Minute
}

// ComputeEndTime returns when a session started at now ends. The result is
// relative to now, not to the schedule's wall-clock end, so a session started
// at any time of day runs the full configured duration.
func (s *Schedule) ComputeEndTime(now time.Time) time.Time {
	return now.Add(s.EffectiveDuration())
}

// ActiveOn reports whether the weekday bit is set in DaysOfWeek.
func (s *Schedule) ActiveOn(day time.Weekday) bool {
	return s.DaysOfWeek&(1<<uint(day)) != 0
}

// FormatMinuteOfDay renders a minute-of-day as HH:MM.
func FormatMinuteOfDay(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseMinuteOfDay parses HH:MM into a minute-of-day.
func ParseMinuteOfDay(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("time %q must be HH:MM: %w", s, ErrInvalidSchedule)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("hour in %q must be 00-23: %w", s, ErrInvalidSchedule)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("minute in %q must be 00-59: %w", s, ErrInvalidSchedule)
	}
	return h*60 + m, nil
}

var weekdayNames = []string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// ParseDaysOfWeek turns "mon,tue,fri", "all" or "weekdays" into a mask.
func ParseDaysOfWeek(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "all", "daily":
		return AllDays, nil
	case "weekdays":
		return 0x3E, nil
	case "weekends":
		return 0x41, nil
	}
	mask := 0
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		found := false
		for i, name := range weekdayNames {
			if strings.HasPrefix(part, name) {
				mask |= 1 << uint(i)
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown weekday %q: %w", part, ErrInvalidSchedule)
		}
	}
	return mask, nil
}

// FormatDaysOfWeek renders a mask as a comma separated weekday list.
func FormatDaysOfWeek(mask int) string {
	switch mask & AllDays {
	case AllDays:
		return "daily"
	case 0x3E:
		return "weekdays"
	case 0x41:
		return "weekends"
	case 0:
		return "never"
	}
	var parts []string
	for i, name := range weekdayNames {
		if mask&(1<<uint(i)) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ",")
}
