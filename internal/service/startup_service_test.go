package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/alexanderramin/lockedin/internal/repository"
	"github.com/alexanderramin/lockedin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResetter struct{ resets int }

func (c *countingResetter) Reset() { c.resets++ }

func TestReconcile_ClosesOpenRowAndClearsState(t *testing.T) {
	database := testutil.NewTestDB(t)
	stats := repository.NewSQLiteStatisticRepo(database)
	uow := testutil.NewTestUoW(database)
	state := &countingResetter{}
	svc := NewStartupService(
		NewLedgerService(stats, uow),
		NewStreakService(repository.NewSQLiteStreakRepo(database), uow),
		state,
	)
	ctx := context.Background()

	started := time.Date(2025, 2, 1, 22, 0, 0, 0, time.UTC)
	row := testutil.NewTestStatistic(started, testutil.WithAttempts(2, domain.DefaultTimeSavedPerAttempt))
	require.NoError(t, stats.Create(ctx, row))

	now := started.Add(3 * time.Hour)
	report, err := svc.Reconcile(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, report.ClosedRows)
	assert.Equal(t, 1, state.resets)

	got, err := stats.GetByID(ctx, row.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EndTime)
	assert.True(t, got.EndTime.Equal(now))
	assert.False(t, got.CompletedSuccessfully)
	assert.Equal(t, 2, got.BlockedAttempts, "counters survive reconciliation")
}

func TestReconcile_Idempotent(t *testing.T) {
	database := testutil.NewTestDB(t)
	stats := repository.NewSQLiteStatisticRepo(database)
	streaks := repository.NewSQLiteStreakRepo(database)
	uow := testutil.NewTestUoW(database)
	svc := NewStartupService(NewLedgerService(stats, uow), NewStreakService(streaks, uow), &countingResetter{})
	ctx := context.Background()

	now := time.Date(2025, 2, 10, 8, 0, 0, 0, time.Local)
	stale := domain.Midnight(now).AddDate(0, 0, -3)
	require.NoError(t, streaks.Save(ctx, &domain.StreakData{CurrentStreak: 5, LongestStreak: 9, LastCompletedDate: &stale}))
	require.NoError(t, stats.Create(ctx, testutil.NewTestStatistic(now.Add(-time.Hour))))

	first, err := svc.Reconcile(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ClosedRows)
	assert.True(t, first.StreakReset)

	afterFirst, err := streaks.Get(ctx)
	require.NoError(t, err)
	rowsFirst, err := stats.List(ctx, 0)
	require.NoError(t, err)

	second, err := svc.Reconcile(ctx, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, second.ClosedRows)
	assert.False(t, second.StreakReset)

	afterSecond, err := streaks.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, afterFirst, afterSecond)

	rowsSecond, err := stats.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, rowsFirst, rowsSecond)

	open, err := stats.CountOpen(ctx)
	require.NoError(t, err)
	assert.Zero(t, open)
	assert.Equal(t, 9, afterSecond.LongestStreak)
}
