package host

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/lockedin/internal/config"
	"github.com/alexanderramin/lockedin/internal/db"
	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/alexanderramin/lockedin/internal/platform"
	"github.com/alexanderramin/lockedin/internal/repository"
	"github.com/alexanderramin/lockedin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	h     *Host
	db    *sql.DB
	rec   *testutil.RecordingPlatform
	clock *testutil.FakeClock
}

func newFixture(t *testing.T, fg platform.ForegroundSource) *fixture {
	t.Helper()
	f := &fixture{
		db:    testutil.NewTestDB(t),
		rec:   testutil.NewRecordingPlatform(),
		clock: testutil.NewFakeClock(time.Date(2025, 3, 3, 10, 0, 0, 0, time.Local)),
	}
	cfg := config.DefaultConfig()
	cfg.TickInterval = time.Hour
	ports := Ports{
		Interceptor: f.rec,
		Notifier:    f.rec,
		Feedback:    f.rec,
		Presenter:   f.rec,
		Reader:      f.rec,
		Foreground:  fg,
	}
	f.h = New(f.db, cfg, ports, nil, WithClock(f.clock.Now))
	t.Cleanup(f.h.Stop)
	return f
}

func (f *fixture) ready(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.h.Setup.Complete(ctx))
	require.NoError(t, f.h.Schedules.Create(ctx, testutil.NewTestSchedule("Deep work")))
	require.NoError(t, f.h.Blocklist.Add(ctx, "com.x.social", "Social"))
	_, err := f.h.Start(ctx, false)
	require.NoError(t, err)
}

func (f *fixture) exec(t *testing.T, line string) string {
	t.Helper()
	out, err := f.h.Exec(context.Background(), line)
	require.NoError(t, err, line)
	return out
}

func TestStart_RequiresSetup(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.h.Start(ctx, false)
	assert.ErrorIs(t, err, domain.ErrSetupIncomplete)
	assert.False(t, f.h.Running())

	_, err = f.h.Exec(ctx, "tap A1B2")
	assert.ErrorIs(t, err, ErrNotRunning)

	_, err = f.h.Start(ctx, true)
	require.NoError(t, err)
	assert.True(t, f.h.Running())
}

func TestStart_ReconcilesInterruptedSession(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	stats := repository.NewSQLiteStatisticRepo(f.db)
	open := testutil.NewTestStatistic(f.clock.Now().Add(-2 * time.Hour))
	require.NoError(t, stats.Create(ctx, open))

	report, err := f.h.Start(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.ClosedRows)

	row, err := stats.GetByID(ctx, open.ID)
	require.NoError(t, err)
	require.NotNil(t, row.EndTime)
	assert.True(t, row.EndTime.Equal(f.clock.Now()))
	assert.False(t, row.CompletedSuccessfully)
	assert.False(t, f.h.State().IsBlocking())
}

func TestExec_FullSession(t *testing.T) {
	f := newFixture(t, nil)
	f.ready(t)

	assert.Equal(t, "session started: Deep work", f.exec(t, "tap A1B2"))
	assert.Equal(t, "intercepted com.x.social", f.exec(t, "fg com.x.social"))
	assert.Equal(t, "allowed com.x.social", f.exec(t, "fg com.x.social"))
	assert.Equal(t, "allowed com.x.maps", f.exec(t, "fg com.x.maps"))

	assert.Contains(t, f.exec(t, "extend 30"), "extended by 30 min")
	assert.Contains(t, f.exec(t, "status"), "Deep work")

	assert.Equal(t, "active session: Deep work", f.exec(t, "tap A1B2"))
	assert.Contains(t, f.exec(t, "end"), "tap your token")
	assert.Contains(t, f.exec(t, "status"), "waiting for token tap")
	assert.Equal(t, "session ended (confirmed=true)", f.exec(t, "tap A1B2"))
	assert.False(t, f.h.State().IsBlocking())

	stats, err := f.h.Ledger.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].BlockedAttempts)
	assert.EqualValues(t, 300, stats[0].TimeSavedSeconds)
}

func TestExec_RegistrationThenWrongTag(t *testing.T) {
	f := newFixture(t, nil)
	f.ready(t)

	assert.Contains(t, f.exec(t, "register"), "registration mode")
	assert.Equal(t, "tag registered: A1B2", f.exec(t, "tap a1b2"))
	assert.Equal(t, "wrong tag: scanned C3D4, expected A1B2", f.exec(t, "tap C3D4"))
	assert.False(t, f.h.State().IsBlocking())

	f.exec(t, "register")
	assert.Equal(t, "registration cancelled", f.exec(t, "register cancel"))
}

func TestExec_IdleCommands(t *testing.T) {
	f := newFixture(t, nil)
	f.ready(t)

	assert.Equal(t, "no active session", f.exec(t, "end"))
	assert.Equal(t, "no active session", f.exec(t, "cancel"))
	assert.Equal(t, "no active session", f.exec(t, "extend 30"))
	assert.Contains(t, f.exec(t, "help"), "register cancel")
	assert.Empty(t, f.exec(t, "   "))
}

func TestExec_Errors(t *testing.T) {
	f := newFixture(t, nil)
	f.ready(t)
	ctx := context.Background()

	_, err := f.h.Exec(ctx, "launch rockets")
	assert.ErrorContains(t, err, "unknown command")

	_, err = f.h.Exec(ctx, "extend soon")
	assert.ErrorContains(t, err, "invalid minutes")

	f.exec(t, "tap A1B2")
	_, err = f.h.Exec(ctx, "extend -5")
	assert.ErrorIs(t, err, domain.ErrInvalidExtension)
}

func TestExec_NoSchedule(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.h.Start(ctx, true)
	require.NoError(t, err)

	assert.Equal(t, "no schedule configured", f.exec(t, "tap A1B2"))
}

func TestServe_RunsUntilQuit(t *testing.T) {
	f := newFixture(t, nil)
	f.ready(t)

	in := strings.NewReader("tap A1B2\nbogus\nfg com.x.social\nquit\nstatus\n")
	var out bytes.Buffer
	require.NoError(t, f.h.Serve(context.Background(), in, &out))

	text := out.String()
	assert.Contains(t, text, "session started: Deep work")
	assert.Contains(t, text, "Error: unknown command")
	assert.Contains(t, text, "intercepted com.x.social")
	assert.NotContains(t, text, "LOCKED IN", "lines after quit are not run")
}

func TestStart_ConsumesForegroundStream(t *testing.T) {
	src := platform.NewLineSource(4)
	f := newFixture(t, src)
	f.ready(t)
	f.exec(t, "tap A1B2")

	require.NoError(t, src.Push(context.Background(), "com.x.social"))
	require.Eventually(t, func() bool {
		return f.rec.Count("interstitial:com.x.social") == 1
	}, time.Second, 5*time.Millisecond)
}

func TestStop_LeavesSessionForReconciliation(t *testing.T) {
	f := newFixture(t, nil)
	f.ready(t)
	f.exec(t, "tap A1B2")

	f.h.Stop()
	assert.False(t, f.h.Running())

	open, err := f.h.Ledger.Active(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, open)

	report, err := f.h.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.ClosedRows)
}

func TestStart_PicksUpBlocklistWritesFromAnotherProcess(t *testing.T) {
	engineDB, path := testutil.NewFileTestDB(t)
	cliDB, err := db.OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { cliDB.Close() })

	rec := testutil.NewRecordingPlatform()
	cfg := config.DefaultConfig()
	cfg.TickInterval = time.Hour
	cfg.StoreWatchInterval = 10 * time.Millisecond
	ports := Ports{Interceptor: rec, Notifier: rec, Feedback: rec, Presenter: rec, Reader: rec}

	engine := New(engineDB, cfg, ports, nil)
	t.Cleanup(engine.Stop)
	cli := New(cliDB, cfg, Ports{}, nil)
	ctx := context.Background()

	require.NoError(t, cli.Schedules.Create(ctx, testutil.NewTestSchedule("Deep work")))
	_, err = engine.Start(ctx, true)
	require.NoError(t, err)
	out, err := engine.Exec(ctx, "tap A1B2")
	require.NoError(t, err)
	require.Equal(t, "session started: Deep work", out)
	assert.Zero(t, engine.Monitor.BlockedCount())

	require.NoError(t, cli.Blocklist.Add(ctx, "com.x.social", "Social"))
	require.Eventually(t, func() bool { return engine.Monitor.BlockedCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	out, err = engine.Exec(ctx, "fg com.x.social")
	require.NoError(t, err)
	assert.Equal(t, "intercepted com.x.social", out)

	require.NoError(t, cli.Blocklist.SetEnabled(ctx, "com.x.social", false))
	require.Eventually(t, func() bool { return engine.Monitor.BlockedCount() == 0 },
		2*time.Second, 10*time.Millisecond)

	out, err = engine.Exec(ctx, "fg com.x.maps")
	require.NoError(t, err)
	assert.Equal(t, "allowed com.x.maps", out)
	out, err = engine.Exec(ctx, "fg com.x.social")
	require.NoError(t, err)
	assert.Equal(t, "allowed com.x.social", out)
}
