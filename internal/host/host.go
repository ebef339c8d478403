// Package host wires the engine onto one database and drives it through a
// small line protocol.
package host

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/lockedin/internal/config"
	"github.com/alexanderramin/lockedin/internal/db"
	"github.com/alexanderramin/lockedin/internal/dispatch"
	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/alexanderramin/lockedin/internal/monitor"
	"github.com/alexanderramin/lockedin/internal/platform"
	"github.com/alexanderramin/lockedin/internal/repository"
	"github.com/alexanderramin/lockedin/internal/service"
	"github.com/alexanderramin/lockedin/internal/session"
)

// ErrNotRunning is returned by engine commands before Start succeeded.
var ErrNotRunning = errors.New("engine not running")

// Ports are the platform capabilities the engine talks to. Foreground is
// optional; without it the monitor only sees `fg` commands.
type Ports struct {
	Interceptor platform.Interceptor
	Notifier    platform.StatusNotifier
	Feedback    platform.Feedback
	Presenter   platform.Presenter
	Reader      platform.TokenReader
	Foreground  platform.ForegroundSource
}

// TerminalPorts routes every output port to t.
func TerminalPorts(t *platform.Terminal) Ports {
	return Ports{Interceptor: t, Notifier: t, Feedback: t, Presenter: t, Reader: t}
}

type Option func(*Host)

func WithClock(now func() time.Time) Option {
	return func(h *Host) { h.now = now }
}

// WithUnitOfWork replaces the transaction runner, for failure tests.
func WithUnitOfWork(uow db.UnitOfWork) Option {
	return func(h *Host) { h.uow = uow }
}

// Host owns every engine component for one process.
type Host struct {
	Schedules service.ScheduleService
	Blocklist service.BlocklistService
	Ledger    service.LedgerService
	Streaks   service.StreakService
	Tokens    service.TokenService
	Setup     service.SetupService

	Supervisor *session.Supervisor
	Monitor    *monitor.Monitor
	Dispatcher *dispatch.Dispatcher

	startup service.StartupService
	db      *sql.DB
	watch   time.Duration
	ports   Ports
	logger  *slog.Logger
	now     func() time.Time
	uow     db.UnitOfWork

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(database *sql.DB, cfg config.Config, ports Ports, logger *slog.Logger, opts ...Option) *Host {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	h := &Host{db: database, watch: cfg.StoreWatchInterval, ports: ports, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	if h.uow == nil {
		h.uow = db.NewSQLiteUnitOfWork(database)
	}

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(logger))
	}

	h.Schedules = service.NewScheduleService(repository.NewSQLiteScheduleRepo(database))
	h.Blocklist = service.NewBlocklistService(repository.NewSQLiteBlockedAppRepo(database))
	h.Ledger = service.NewLedgerService(repository.NewSQLiteStatisticRepo(database), h.uow, observers...)
	h.Streaks = service.NewStreakService(repository.NewSQLiteStreakRepo(database), h.uow, observers...)
	h.Tokens = service.NewTokenService(repository.NewSQLiteTokenRepo(database), observers...)
	h.Setup = service.NewSetupService(repository.NewSQLiteSetupRepo(database))

	state := session.NewState()
	h.Monitor = monitor.New(h.Blocklist, h.Ledger, state, ports.Interceptor, monitor.Config{
		Ignored:             cfg.Ignored(),
		TimeSavedPerAttempt: cfg.TimeSavedPerAttempt,
	}, logger.With("component", "monitor"))
	h.Supervisor = session.NewSupervisor(state, h.Schedules, h.Ledger, h.Streaks, ports.Notifier,
		session.WithTickInterval(cfg.TickInterval),
		session.WithClock(h.now),
		session.WithLogger(logger.With("component", "supervisor")),
		session.WithActivationHook(h.Monitor.Refresh),
	)
	h.Dispatcher = dispatch.New(h.Tokens, h.Supervisor, ports.Feedback, ports.Presenter, ports.Reader,
		logger.With("component", "dispatch"), dispatch.WithClock(h.now))
	h.startup = service.NewStartupService(h.Ledger, h.Streaks, state, observers...)
	return h
}

// Reconcile repairs state left by a previous process. It runs on every
// Start and on its own for the boot signal.
func (h *Host) Reconcile(ctx context.Context) (*service.ReconcileReport, error) {
	report, err := h.startup.Reconcile(ctx, h.now())
	if err != nil {
		return nil, fmt.Errorf("reconciling: %w", err)
	}
	if report.ClosedRows > 0 || report.StreakReset {
		h.logger.InfoContext(ctx, "reconciled",
			"closed_rows", report.ClosedRows, "streak_reset", report.StreakReset)
	}
	return report, nil
}

// Start reconciles, then engages the monitor. Unless force is set it
// refuses to engage before setup has been completed; the report is
// returned either way.
func (h *Host) Start(ctx context.Context, force bool) (*service.ReconcileReport, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return &service.ReconcileReport{}, nil
	}

	report, err := h.Reconcile(ctx)
	if err != nil {
		return nil, err
	}
	setup, err := h.Setup.Get(ctx)
	if err != nil {
		return report, fmt.Errorf("reading setup state: %w", err)
	}
	if !setup.Completed && !force {
		return report, domain.ErrSetupIncomplete
	}

	var version int64
	if h.watch > 0 {
		if version, err = db.DataVersion(ctx, h.db); err != nil {
			return report, err
		}
	}
	if err := h.Monitor.Start(ctx); err != nil {
		return report, fmt.Errorf("loading block-list: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	h.cancel = cancel
	if h.watch > 0 {
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			h.watchStore(runCtx, version)
		}()
	}
	if src := h.ports.Foreground; src != nil {
		if src.IsMonitoringPermissionGranted() {
			h.wg.Add(1)
			go func() {
				defer h.wg.Done()
				if err := h.Monitor.Run(runCtx, src.Events()); err != nil && !errors.Is(err, context.Canceled) {
					h.logger.Error("foreground stream stopped", "error", err)
				}
			}()
		} else {
			h.logger.WarnContext(ctx, "monitoring permission not granted, foreground stream ignored")
		}
	}
	if !h.Dispatcher.IsTokenReaderEnabled() {
		h.logger.WarnContext(ctx, "token reader unavailable", "supported", h.Dispatcher.IsTokenReaderSupported())
	}

	h.running = true
	h.logger.InfoContext(ctx, "engine started", "forced", force && !setup.Completed)
	return report, nil
}

// watchStore republishes the block-list whenever another process commits
// to the store, so `lockedin block` and `lockedin import` reach a running
// monitor.
func (h *Host) watchStore(ctx context.Context, version int64) {
	ticker := time.NewTicker(h.watch)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		v, err := db.DataVersion(ctx, h.db)
		if err != nil {
			if ctx.Err() == nil {
				h.logger.WarnContext(ctx, "checking store for changes", "error", err)
			}
			continue
		}
		if v == version {
			continue
		}
		if err := h.Blocklist.Reload(ctx); err != nil {
			h.logger.WarnContext(ctx, "reloading block-list", "error", err)
			continue
		}
		version = v
		h.logger.DebugContext(ctx, "block-list reloaded after external change", "blocked", h.Monitor.BlockedCount())
	}
}

// Stop releases the monitor and countdown. An open session stays open in
// the ledger and is closed by the next reconciliation.
func (h *Host) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	cancel := h.cancel
	h.cancel = nil
	h.mu.Unlock()

	cancel()
	h.wg.Wait()
	h.Monitor.Stop()
	h.Supervisor.Shutdown()
}

func (h *Host) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

// State exposes the live session cache.
func (h *Host) State() *session.State {
	return h.Supervisor.State()
}
