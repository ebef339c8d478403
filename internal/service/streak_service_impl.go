package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/lockedin/internal/db"
	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/alexanderramin/lockedin/internal/repository"
)

type streakService struct {
	streaks  repository.StreakRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewStreakService(streaks repository.StreakRepo, uow db.UnitOfWork, observers ...UseCaseObserver) StreakService {
	return &streakService{streaks: streaks, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Get seeds the singleton row if it is missing.
func (s *streakService) Get(ctx context.Context) (*domain.StreakData, error) {
	return getOrSeedStreak(ctx, s.streaks)
}

func getOrSeedStreak(ctx context.Context, repo repository.StreakRepo) (*domain.StreakData, error) {
	data, err := repo.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		data = &domain.StreakData{}
		if err := repo.Save(ctx, data); err != nil {
			return nil, err
		}
		return data, nil
	}
	return data, err
}

func (s *streakService) OnSessionCompleted(ctx context.Context, now time.Time) (milestone int, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "complete-streak-day", time.Now(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txStreaks := repository.NewSQLiteStreakRepo(tx)
		current, err := getOrSeedStreak(ctx, txStreaks)
		if err != nil {
			return err
		}
		next, update := current.Complete(now)
		fields["counted"] = update.Counted
		fields["current_streak"] = next.CurrentStreak
		if !update.Counted {
			return nil
		}
		milestone = update.Milestone
		return txStreaks.Save(ctx, &next)
	})
	if err != nil {
		return 0, err
	}
	return milestone, nil
}

// CheckAndReset zeroes the current streak when the last completion is
// older than yesterday. It reports whether it changed anything.
func (s *streakService) CheckAndReset(ctx context.Context, now time.Time) (bool, error) {
	data, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	if !data.NeedsReset(now) || data.CurrentStreak == 0 {
		return false, nil
	}
	if err := s.streaks.ResetCurrent(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *streakService) UnshownMilestone(ctx context.Context) (int, error) {
	data, err := s.Get(ctx)
	if err != nil {
		return 0, err
	}
	return data.UnshownMilestone(), nil
}

func (s *streakService) MarkMilestoneShown(ctx context.Context, milestone int) error {
	return s.streaks.SetLastMilestoneShown(ctx, milestone)
}
