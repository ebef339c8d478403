// Package monitor watches foreground-app transitions and intercepts blocked
// apps while a session is running.
package monitor

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/alexanderramin/lockedin/internal/platform"
	"github.com/alexanderramin/lockedin/internal/service"
	"github.com/alexanderramin/lockedin/internal/session"
)

type Config struct {
	// Ignored packages are never intercepted: the app itself (its
	// interstitial included) and the system UI.
	Ignored             []string
	TimeSavedPerAttempt time.Duration
}

// Detection is one foreground transition the monitor acted on.
type Detection struct {
	Package     string
	At          time.Time
	Intercepted bool
}

type Monitor struct {
	blocklist   service.BlocklistService
	ledger      service.LedgerService
	state       *session.State
	interceptor platform.Interceptor
	logger      *slog.Logger
	now         func() time.Time

	ignored   map[string]struct{}
	timeSaved int64

	mu          sync.Mutex
	snapshot    domain.PackageSet
	last        string
	intercepted bool
	recent      []Detection

	unsubscribe func()
}

const recentLimit = 20

func New(
	blocklist service.BlocklistService,
	ledger service.LedgerService,
	state *session.State,
	interceptor platform.Interceptor,
	cfg Config,
	logger *slog.Logger,
) *Monitor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	saved := cfg.TimeSavedPerAttempt
	if saved <= 0 {
		saved = domain.DefaultTimeSavedPerAttempt
	}
	ignored := make(map[string]struct{}, len(cfg.Ignored))
	for _, p := range cfg.Ignored {
		ignored[p] = struct{}{}
	}
	return &Monitor{
		blocklist:   blocklist,
		ledger:      ledger,
		state:       state,
		interceptor: interceptor,
		logger:      logger,
		now:         time.Now,
		ignored:     ignored,
		timeSaved:   int64(saved / time.Second),
		snapshot:    domain.PackageSet{},
	}
}

// Start subscribes to block-list changes and then loads the enabled set
// synchronously, so the first events after Start never see an empty
// snapshot.
func (m *Monitor) Start(ctx context.Context) error {
	m.unsubscribe = m.blocklist.Subscribe(m.setSnapshot)
	return m.Refresh(ctx)
}

// Stop ends the block-list subscription.
func (m *Monitor) Stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Refresh reloads the enabled block-list from the store.
func (m *Monitor) Refresh(ctx context.Context) error {
	set, err := m.blocklist.EnabledSet(ctx)
	if err != nil {
		return err
	}
	m.setSnapshot(set)
	m.logger.DebugContext(ctx, "block-list loaded", "count", len(set))
	return nil
}

func (m *Monitor) setSnapshot(set domain.PackageSet) {
	m.mu.Lock()
	m.snapshot = set
	m.mu.Unlock()
}

// BlockedCount returns the size of the current snapshot.
func (m *Monitor) BlockedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snapshot)
}

// HandleForeground processes one foreground event and reports whether it
// was intercepted. Consecutive identical packages are dropped; the de-dup
// key clears once an ignored package (the interstitial) takes the
// foreground after an interception, so a retry is caught again.
func (m *Monitor) HandleForeground(ctx context.Context, pkg string) bool {
	if pkg == "" {
		return false
	}
	m.mu.Lock()
	if _, skip := m.ignored[pkg]; skip {
		if m.intercepted {
			m.last, m.intercepted = "", false
		}
		m.mu.Unlock()
		return false
	}
	if pkg == m.last {
		m.mu.Unlock()
		return false
	}
	m.last = pkg
	m.intercepted = false
	blocked := m.snapshot.Contains(pkg)
	m.mu.Unlock()

	snap := m.state.Snapshot()
	if !blocked || !snap.IsBlocking {
		m.remember(pkg, false)
		return false
	}

	m.intercept(ctx, pkg, snap)
	m.mu.Lock()
	m.intercepted = true
	m.mu.Unlock()
	m.remember(pkg, true)
	return true
}

func (m *Monitor) intercept(ctx context.Context, pkg string, snap session.Snapshot) {
	log := m.logger.With("package", pkg, "session_id", snap.SessionID)

	if snap.SessionID == "" {
		log.WarnContext(ctx, "blocking without a session id, attempt not recorded")
	} else if ok, err := m.ledger.RecordBlockedAttempt(ctx, snap.SessionID, m.timeSaved); err != nil {
		log.ErrorContext(ctx, "recording blocked attempt", "error", err)
	} else if !ok {
		log.InfoContext(ctx, "session closed before attempt was recorded")
	}

	if err := m.interceptor.SendHome(ctx); err != nil {
		log.ErrorContext(ctx, "sending home", "error", err)
	}
	if err := m.interceptor.ShowInterstitial(ctx, pkg); err != nil {
		log.ErrorContext(ctx, "showing interstitial", "error", err)
	}
	log.InfoContext(ctx, "blocked app intercepted")
}

func (m *Monitor) remember(pkg string, intercepted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recent = append(m.recent, Detection{Package: pkg, At: m.now(), Intercepted: intercepted})
	if len(m.recent) > recentLimit {
		m.recent = m.recent[len(m.recent)-recentLimit:]
	}
}

// LastDetected returns the most recent non-ignored detection.
func (m *Monitor) LastDetected() (Detection, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.recent) == 0 {
		return Detection{}, false
	}
	return m.recent[len(m.recent)-1], true
}

// Recent returns up to the last 20 detections, oldest first.
func (m *Monitor) Recent() []Detection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Detection(nil), m.recent...)
}

// Run consumes events until ctx is done or the channel closes.
func (m *Monitor) Run(ctx context.Context, events <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case pkg, ok := <-events:
			if !ok {
				return nil
			}
			m.HandleForeground(ctx, pkg)
		}
	}
}
