package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/alexanderramin/lockedin/internal/repository"
	"github.com/alexanderramin/lockedin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleService_ResolveFirstEnabled(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewScheduleService(repository.NewSQLiteScheduleRepo(database))
	ctx := context.Background()

	_, err := svc.Resolve(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNoScheduleConfigured)

	off := testutil.NewTestSchedule("off", testutil.WithScheduleDisabled())
	require.NoError(t, svc.Create(ctx, off))
	_, err = svc.Resolve(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNoScheduleConfigured)

	on := &domain.Schedule{Name: "Work", StartMinute: 540, EndMinute: 1020, DaysOfWeek: domain.AllDays, Enabled: true}
	require.NoError(t, svc.Create(ctx, on))
	assert.NotEmpty(t, on.ID)

	got, err := svc.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, on.ID, got.ID)

	_, err = svc.Resolve(ctx, "deleted-id")
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
}

func TestScheduleService_ValidatesAndToggles(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewScheduleService(repository.NewSQLiteScheduleRepo(database))
	ctx := context.Background()

	bad := &domain.Schedule{Name: "bad", StartMinute: 1500, EndMinute: 10, DaysOfWeek: domain.AllDays}
	assert.ErrorIs(t, svc.Create(ctx, bad), domain.ErrInvalidSchedule)

	s := testutil.NewTestSchedule("Work")
	require.NoError(t, svc.Create(ctx, s))
	require.NoError(t, svc.SetEnabled(ctx, s.ID, false))

	enabled, err := svc.ListEnabled(ctx)
	require.NoError(t, err)
	assert.Empty(t, enabled)

	require.NoError(t, svc.Delete(ctx, s.ID))
	assert.ErrorIs(t, svc.Delete(ctx, s.ID), domain.ErrScheduleNotFound)
}

func TestBlocklistService_PublishesEnabledSetAfterWrites(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewBlocklistService(repository.NewSQLiteBlockedAppRepo(database))
	ctx := context.Background()

	var snapshots []domain.PackageSet
	unsubscribe := svc.Subscribe(func(set domain.PackageSet) {
		snapshots = append(snapshots, set)
	})

	require.NoError(t, svc.Add(ctx, "com.x.social", "Social"))
	require.NoError(t, svc.Add(ctx, "com.x.video", ""))
	require.NoError(t, svc.SetEnabled(ctx, "com.x.video", false))

	require.Len(t, snapshots, 3)
	assert.True(t, snapshots[1].Contains("com.x.video"))
	assert.False(t, snapshots[2].Contains("com.x.video"))
	assert.True(t, snapshots[2].Contains("com.x.social"))

	unsubscribe()
	require.NoError(t, svc.Remove(ctx, "com.x.social"))
	assert.Len(t, snapshots, 3)

	n, err := svc.EnabledCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBlocklistService_ReloadRepublishesStoreContents(t *testing.T) {
	database := testutil.NewTestDB(t)
	apps := repository.NewSQLiteBlockedAppRepo(database)
	svc := NewBlocklistService(apps)
	ctx := context.Background()

	var got domain.PackageSet
	unsubscribe := svc.Subscribe(func(set domain.PackageSet) { got = set })
	defer unsubscribe()

	require.NoError(t, apps.Upsert(ctx, testutil.NewTestBlockedApp("com.x.social")))
	assert.Nil(t, got)

	require.NoError(t, svc.Reload(ctx))
	assert.True(t, got.Contains("com.x.social"))
}

func TestBlocklistService_RejectsBlankPackage(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewBlocklistService(repository.NewSQLiteBlockedAppRepo(database))

	assert.ErrorIs(t, svc.Add(context.Background(), "  ", ""), domain.ErrInvalidPackage)
}

func TestSetupService_CompleteIsSticky(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewSetupService(repository.NewSQLiteSetupRepo(database))
	ctx := context.Background()

	st, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, st.Completed)

	require.NoError(t, svc.Complete(ctx))
	first, err := svc.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)

	require.NoError(t, svc.Complete(ctx))
	second, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, first.CompletedAt.Equal(*second.CompletedAt))

	require.NoError(t, svc.Reset(ctx))
	st, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, st.Completed)
}
