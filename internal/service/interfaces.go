package service

import (
	"context"
	"time"

	"github.com/alexanderramin/lockedin/internal/domain"
)

type TokenService interface {
	// Get returns repository.ErrNotFound when no token is registered.
	Get(ctx context.Context) (*domain.RegisteredToken, error)
	Validate(ctx context.Context, scanned string) (domain.TokenValidation, error)
	Register(ctx context.Context, rawID, nickname string) (*domain.RegisteredToken, error)
	Unregister(ctx context.Context) error
}

type LedgerService interface {
	// Open starts a ledger row at start and snapshots the enabled block-list
	// size, in one transaction. It fails with domain.ErrSessionAlreadyOpen
	// while another row is open.
	Open(ctx context.Context, start time.Time) (*domain.SessionStatistic, int, error)
	Close(ctx context.Context, id string, end time.Time, completed bool) (bool, error)
	RecordBlockedAttempt(ctx context.Context, id string, timeSavedSeconds int64) (bool, error)
	CloseInterrupted(ctx context.Context, now time.Time) (int, error)
	Summary(ctx context.Context, now time.Time) (*domain.StatsSummary, error)
	List(ctx context.Context, limit int) ([]*domain.SessionStatistic, error)
	Get(ctx context.Context, id string) (*domain.SessionStatistic, error)
	// Active returns the open row, or nil when none is open.
	Active(ctx context.Context) (*domain.SessionStatistic, error)
}

type StreakService interface {
	Get(ctx context.Context) (*domain.StreakData, error)
	// OnSessionCompleted returns the newly crossed milestone, or 0.
	OnSessionCompleted(ctx context.Context, now time.Time) (int, error)
	CheckAndReset(ctx context.Context, now time.Time) (bool, error)
	UnshownMilestone(ctx context.Context) (int, error)
	MarkMilestoneShown(ctx context.Context, milestone int) error
}

type ScheduleService interface {
	Create(ctx context.Context, s *domain.Schedule) error
	GetByID(ctx context.Context, id string) (*domain.Schedule, error)
	List(ctx context.Context) ([]*domain.Schedule, error)
	ListEnabled(ctx context.Context) ([]*domain.Schedule, error)
	// Resolve returns the schedule with id, or the first enabled schedule
	// when id is empty.
	Resolve(ctx context.Context, id string) (*domain.Schedule, error)
	Update(ctx context.Context, s *domain.Schedule) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
	Delete(ctx context.Context, id string) error
}

type BlocklistService interface {
	Add(ctx context.Context, packageName, displayName string) error
	Remove(ctx context.Context, packageName string) error
	SetEnabled(ctx context.Context, packageName string, enabled bool) error
	List(ctx context.Context) ([]domain.BlockedApp, error)
	EnabledSet(ctx context.Context) (domain.PackageSet, error)
	EnabledCount(ctx context.Context) (int, error)
	// Subscribe registers fn for the enabled set after every write. The
	// returned func unsubscribes.
	Subscribe(fn func(domain.PackageSet)) func()
	// Reload re-reads the store and republishes the enabled set, for
	// writes made by another process.
	Reload(ctx context.Context) error
}

type SetupService interface {
	Get(ctx context.Context) (*domain.SetupState, error)
	Complete(ctx context.Context) error
	Reset(ctx context.Context) error
}

// StateResetter clears the in-process session cache.
type StateResetter interface {
	Reset()
}

// ReconcileReport describes what a startup reconciliation changed.
type ReconcileReport struct {
	ClosedRows  int
	StreakReset bool
}

type StartupService interface {
	Reconcile(ctx context.Context, now time.Time) (*ReconcileReport, error)
}
