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

func newStreakService(t *testing.T) (StreakService, repository.StreakRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteStreakRepo(database)
	return NewStreakService(repo, testutil.NewTestUoW(database)), repo
}

func TestStreakService_MilestonesFireOncePersisted(t *testing.T) {
	svc, _ := newStreakService(t)
	ctx := context.Background()
	day := time.Date(2025, 1, 1, 20, 0, 0, 0, time.Local)

	var fired []int
	for i := 0; i < 31; i++ {
		now := day.AddDate(0, 0, i)
		m, err := svc.OnSessionCompleted(ctx, now)
		require.NoError(t, err)
		if m > 0 {
			fired = append(fired, m)
		}
		// Second completion on the same day is a no-op.
		again, err := svc.OnSessionCompleted(ctx, now.Add(time.Hour))
		require.NoError(t, err)
		assert.Zero(t, again)
	}
	assert.Equal(t, []int{7, 30}, fired)

	data, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 31, data.CurrentStreak)
	assert.Equal(t, 31, data.LongestStreak)
	assert.Equal(t, 30, data.LastMilestoneShown)
}

func TestStreakService_GapResetsCurrentKeepsLongest(t *testing.T) {
	svc, _ := newStreakService(t)
	ctx := context.Background()
	day := time.Date(2025, 1, 1, 20, 0, 0, 0, time.Local)

	for i := 0; i < 3; i++ {
		_, err := svc.OnSessionCompleted(ctx, day.AddDate(0, 0, i))
		require.NoError(t, err)
	}
	_, err := svc.OnSessionCompleted(ctx, day.AddDate(0, 0, 5))
	require.NoError(t, err)

	data, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, data.CurrentStreak)
	assert.Equal(t, 3, data.LongestStreak)
}

func TestStreakService_CheckAndReset(t *testing.T) {
	svc, repo := newStreakService(t)
	ctx := context.Background()
	last := domain.Midnight(time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local))
	require.NoError(t, repo.Save(ctx, &domain.StreakData{CurrentStreak: 4, LongestStreak: 6, LastCompletedDate: &last}))

	// Yesterday's completion keeps the streak alive.
	reset, err := svc.CheckAndReset(ctx, last.AddDate(0, 0, 1).Add(10*time.Hour))
	require.NoError(t, err)
	assert.False(t, reset)

	reset, err = svc.CheckAndReset(ctx, last.AddDate(0, 0, 2).Add(10*time.Hour))
	require.NoError(t, err)
	assert.True(t, reset)

	data, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, data.CurrentStreak)
	assert.Equal(t, 6, data.LongestStreak)

	reset, err = svc.CheckAndReset(ctx, last.AddDate(0, 0, 2).Add(10*time.Hour))
	require.NoError(t, err)
	assert.False(t, reset)
}

func TestStreakService_UnshownMilestone(t *testing.T) {
	svc, repo := newStreakService(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &domain.StreakData{CurrentStreak: 8, LongestStreak: 8}))

	m, err := svc.UnshownMilestone(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, m)

	require.NoError(t, svc.MarkMilestoneShown(ctx, 7))
	m, err = svc.UnshownMilestone(ctx)
	require.NoError(t, err)
	assert.Zero(t, m)
}
