package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/alexanderramin/lockedin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreakRepo_SeededAndSaved(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteStreakRepo(db)
	ctx := context.Background()

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentStreak)
	assert.Nil(t, got.LastCompletedDate)

	day := domain.Midnight(time.Date(2025, 6, 1, 15, 0, 0, 0, time.Local))
	require.NoError(t, repo.Save(ctx, &domain.StreakData{
		CurrentStreak:     7,
		LongestStreak:     9,
		LastCompletedDate: &day,
	}))
	require.NoError(t, repo.SetLastMilestoneShown(ctx, 7))
	require.NoError(t, repo.SetLastMilestoneShown(ctx, 0))

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, got.CurrentStreak)
	assert.Equal(t, 9, got.LongestStreak)
	assert.Equal(t, 7, got.LastMilestoneShown, "milestone marker never moves backwards")
	require.NotNil(t, got.LastCompletedDate)
	assert.True(t, got.LastCompletedDate.Equal(day))

	require.NoError(t, repo.ResetCurrent(ctx))
	got, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, 9, got.LongestStreak)
}

func TestTokenRepo_PutReplacesAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTokenRepo(db)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Put(ctx, testutil.NewTestToken("04A1B2")))
	require.NoError(t, repo.Put(ctx, testutil.NewTestToken("DEADBEEF")))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "DEADBEEF", got.TokenID)

	require.NoError(t, repo.Delete(ctx))
	_, err = repo.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetupRepo_DefaultsIncomplete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSetupRepo(db)
	ctx := context.Background()

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.False(t, got.Completed)

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, &domain.SetupState{Completed: true, CompletedAt: &at}))

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(at))
}
