package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/lockedin/internal/db"
	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/alexanderramin/lockedin/internal/repository"
	"github.com/google/uuid"
)

type ledgerService struct {
	stats    repository.StatisticRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewLedgerService(stats repository.StatisticRepo, uow db.UnitOfWork, observers ...UseCaseObserver) LedgerService {
	return &ledgerService{stats: stats, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *ledgerService) Open(ctx context.Context, start time.Time) (row *domain.SessionStatistic, blocked int, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "open-session", time.Now(), fields, &err)

	row = &domain.SessionStatistic{
		ID:        uuid.New().String(),
		StartTime: start,
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txStats := repository.NewSQLiteStatisticRepo(tx)
		txApps := repository.NewSQLiteBlockedAppRepo(tx)

		open, err := txStats.CountOpen(ctx)
		if err != nil {
			return err
		}
		if open > 0 {
			return domain.ErrSessionAlreadyOpen
		}
		if blocked, err = txApps.CountEnabled(ctx); err != nil {
			return err
		}
		return txStats.Create(ctx, row)
	})
	if err != nil {
		return nil, 0, err
	}
	fields["session_id"] = row.ID
	fields["blocked_apps"] = blocked
	return row, blocked, nil
}

func (s *ledgerService) Close(ctx context.Context, id string, end time.Time, completed bool) (closed bool, err error) {
	fields := map[string]any{"session_id": id, "completed": completed}
	defer observe(ctx, s.observer, "close-session", time.Now(), fields, &err)

	closed, err = s.stats.Close(ctx, id, end, completed)
	fields["closed"] = closed
	return closed, err
}

func (s *ledgerService) RecordBlockedAttempt(ctx context.Context, id string, timeSavedSeconds int64) (bool, error) {
	return s.stats.IncrementBlocked(ctx, id, timeSavedSeconds)
}

func (s *ledgerService) CloseInterrupted(ctx context.Context, now time.Time) (int, error) {
	return s.stats.CloseAllOpen(ctx, now)
}

func (s *ledgerService) Summary(ctx context.Context, now time.Time) (*domain.StatsSummary, error) {
	rows, err := s.stats.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	summary := domain.Summarize(rows, now)
	return &summary, nil
}

func (s *ledgerService) List(ctx context.Context, limit int) ([]*domain.SessionStatistic, error) {
	return s.stats.List(ctx, limit)
}

func (s *ledgerService) Get(ctx context.Context, id string) (*domain.SessionStatistic, error) {
	return s.stats.GetByID(ctx, id)
}

func (s *ledgerService) Active(ctx context.Context) (*domain.SessionStatistic, error) {
	row, err := s.stats.GetOpen(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return row, err
}
