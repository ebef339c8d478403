package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/lockedin/internal/domain"
)

type ScheduleRepo interface {
	Create(ctx context.Context, s *domain.Schedule) error
	GetByID(ctx context.Context, id string) (*domain.Schedule, error)
	List(ctx context.Context) ([]*domain.Schedule, error)
	// ListEnabled returns enabled schedules oldest first; the first entry
	// wins when more than one is enabled.
	ListEnabled(ctx context.Context) ([]*domain.Schedule, error)
	Update(ctx context.Context, s *domain.Schedule) error
	Delete(ctx context.Context, id string) error
}

type BlockedAppRepo interface {
	Upsert(ctx context.Context, a *domain.BlockedApp) error
	Get(ctx context.Context, packageName string) (*domain.BlockedApp, error)
	List(ctx context.Context) ([]domain.BlockedApp, error)
	ListEnabled(ctx context.Context) ([]domain.BlockedApp, error)
	CountEnabled(ctx context.Context) (int, error)
	SetEnabled(ctx context.Context, packageName string, enabled bool) error
	Delete(ctx context.Context, packageName string) error
}

type StatisticRepo interface {
	Create(ctx context.Context, s *domain.SessionStatistic) error
	GetByID(ctx context.Context, id string) (*domain.SessionStatistic, error)
	GetOpen(ctx context.Context) (*domain.SessionStatistic, error)
	CountOpen(ctx context.Context) (int, error)
	List(ctx context.Context, limit int) ([]*domain.SessionStatistic, error)
	ListSince(ctx context.Context, since time.Time) ([]*domain.SessionStatistic, error)
	// Close sets end_time on an open row. It reports false when the row was
	// already closed or does not exist.
	Close(ctx context.Context, id string, end time.Time, completed bool) (bool, error)
	CloseAllOpen(ctx context.Context, end time.Time) (int, error)
	// IncrementBlocked atomically bumps the attempt counter and time-saved
	// accumulator of an open row. It reports false when the row is closed.
	IncrementBlocked(ctx context.Context, id string, timeSavedSeconds int64) (bool, error)
}

type StreakRepo interface {
	Get(ctx context.Context) (*domain.StreakData, error)
	Save(ctx context.Context, s *domain.StreakData) error
	ResetCurrent(ctx context.Context) error
	SetLastMilestoneShown(ctx context.Context, milestone int) error
}

type TokenRepo interface {
	Get(ctx context.Context) (*domain.RegisteredToken, error)
	Put(ctx context.Context, t *domain.RegisteredToken) error
	Delete(ctx context.Context) error
}

type SetupRepo interface {
	Get(ctx context.Context) (*domain.SetupState, error)
	Save(ctx context.Context, s *domain.SetupState) error
}
