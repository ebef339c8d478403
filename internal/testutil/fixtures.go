package testutil

import (
	"time"

	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/google/uuid"
)

// Schedule options
type ScheduleOption func(*domain.Schedule)

func WithWindow(startMinute, endMinute int) ScheduleOption {
	return func(s *domain.Schedule) {
		s.StartMinute = startMinute
		s.EndMinute = endMinute
	}
}

func WithDays(mask int) ScheduleOption {
	return func(s *domain.Schedule) {
		s.DaysOfWeek = mask
	}
}

func WithScheduleDisabled() ScheduleOption {
	return func(s *domain.Schedule) {
		s.Enabled = false
	}
}

func WithCreatedAt(t time.Time) ScheduleOption {
	return func(s *domain.Schedule) {
		s.CreatedAt = t
	}
}

// NewTestSchedule returns an enabled 09:00-17:00 every-day schedule.
func NewTestSchedule(name string, opts ...ScheduleOption) *domain.Schedule {
	s := &domain.Schedule{
		ID:          uuid.New().String(),
		Name:        name,
		StartMinute: 9 * 60,
		EndMinute:   17 * 60,
		DaysOfWeek:  domain.AllDays,
		Enabled:     true,
		CreatedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewTestBlockedApp(pkg string) *domain.BlockedApp {
	return &domain.BlockedApp{
		PackageName: pkg,
		DisplayName: pkg,
		Enabled:     true,
	}
}

// Statistic options
type StatisticOption func(*domain.SessionStatistic)

func WithEndTime(t time.Time) StatisticOption {
	return func(s *domain.SessionStatistic) {
		s.EndTime = &t
	}
}

func WithAttempts(n int, savedPerAttempt time.Duration) StatisticOption {
	return func(s *domain.SessionStatistic) {
		s.BlockedAttempts = n
		s.TimeSavedSeconds = int64(n) * int64(savedPerAttempt/time.Second)
	}
}

func WithCompleted() StatisticOption {
	return func(s *domain.SessionStatistic) {
		s.CompletedSuccessfully = true
	}
}

// NewTestStatistic returns an open ledger row started at start.
func NewTestStatistic(start time.Time, opts ...StatisticOption) *domain.SessionStatistic {
	s := &domain.SessionStatistic{
		ID:        uuid.New().String(),
		StartTime: start,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewTestToken(id string) *domain.RegisteredToken {
	return &domain.RegisteredToken{
		TokenID:      id,
		RegisteredAt: time.Now().UTC(),
	}
}
