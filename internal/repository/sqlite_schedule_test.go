package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/lockedin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRepo_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	s := testutil.NewTestSchedule("Deep work", testutil.WithWindow(22*60, 6*60), testutil.WithDays(0x3E))
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deep work", got.Name)
	assert.Equal(t, 22*60, got.StartMinute)
	assert.Equal(t, 6*60, got.EndMinute)
	assert.Equal(t, 0x3E, got.DaysOfWeek)
	assert.True(t, got.Enabled)
	assert.WithinDuration(t, s.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestScheduleRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleRepo_ListEnabled_OldestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	newer := testutil.NewTestSchedule("newer", testutil.WithCreatedAt(base.Add(time.Hour)))
	older := testutil.NewTestSchedule("older", testutil.WithCreatedAt(base))
	off := testutil.NewTestSchedule("off", testutil.WithCreatedAt(base.Add(-time.Hour)), testutil.WithScheduleDisabled())
	require.NoError(t, repo.Create(ctx, newer))
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, off))

	enabled, err := repo.ListEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, enabled, 2)
	assert.Equal(t, "older", enabled[0].Name)
	assert.Equal(t, "newer", enabled[1].Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestScheduleRepo_UpdateAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	s := testutil.NewTestSchedule("Work")
	require.NoError(t, repo.Create(ctx, s))

	s.Enabled = false
	s.EndMinute = 18 * 60
	require.NoError(t, repo.Update(ctx, s))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, got.Enabled)
	assert.Equal(t, 18*60, got.EndMinute)

	require.NoError(t, repo.Delete(ctx, s.ID))
	assert.ErrorIs(t, repo.Delete(ctx, s.ID), ErrNotFound)
}

func TestScheduleRepo_RejectsOutOfRangeMinutes(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)

	s := testutil.NewTestSchedule("bad", testutil.WithWindow(0, 1440))
	assert.Error(t, repo.Create(context.Background(), s))
}
