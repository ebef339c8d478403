package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/alexanderramin/lockedin/internal/platform"
	"github.com/alexanderramin/lockedin/internal/service"
)

// DefaultTickInterval is how often the countdown refreshes the status
// notification and checks for expiry.
const DefaultTickInterval = time.Minute

// Activation describes a session that Start opened.
type Activation struct {
	Schedule    *domain.Schedule
	SessionID   string
	StartTime   time.Time
	EndTime     time.Time
	BlockedApps int
}

// Completion describes a session that EndSession closed.
type Completion struct {
	SessionID string
	Completed bool
	EndTime   time.Time
	Milestone int
}

// Supervisor is the sole writer of session open/close transitions. It owns
// the countdown and keeps State, the ledger and the status notification in
// step.
type Supervisor struct {
	state     *State
	schedules service.ScheduleService
	ledger    service.LedgerService
	streaks   service.StreakService
	notifier  platform.StatusNotifier

	logger     *slog.Logger
	tick       time.Duration
	now        func() time.Time
	onActivate func(ctx context.Context) error

	mu     sync.Mutex // serializes transitions
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Supervisor)

func WithTickInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.tick = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Supervisor) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Supervisor) { s.logger = l }
}

// WithActivationHook runs fn right after a session opens, before the state
// flips. The host uses it to refresh the monitor's block-list snapshot.
func WithActivationHook(fn func(ctx context.Context) error) Option {
	return func(s *Supervisor) { s.onActivate = fn }
}

func NewSupervisor(
	state *State,
	schedules service.ScheduleService,
	ledger service.LedgerService,
	streaks service.StreakService,
	notifier platform.StatusNotifier,
	opts ...Option,
) *Supervisor {
	s := &Supervisor{
		state:     state,
		schedules: schedules,
		ledger:    ledger,
		streaks:   streaks,
		notifier:  notifier,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		tick:      DefaultTickInterval,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Supervisor) State() *State { return s.state }

// Start opens a session for scheduleID, or for the first enabled schedule
// when scheduleID is empty. Any storage failure leaves the supervisor Idle.
func (s *Supervisor) Start(ctx context.Context, scheduleID string) (*Activation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsBlocking() {
		return nil, domain.ErrSessionActive
	}
	sch, err := s.schedules.Resolve(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	end := sch.ComputeEndTime(now)
	row, blocked, err := s.ledger.Open(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("opening session: %w", err)
	}

	if s.onActivate != nil {
		if err := s.onActivate(ctx); err != nil {
			s.logger.WarnContext(ctx, "activation hook failed", "session_id", row.ID, "error", err)
		}
	}

	s.state.activate(Snapshot{
		SessionID:    row.ID,
		ScheduleID:   sch.ID,
		ScheduleName: sch.Name,
		StartTime:    now,
		EndTime:      end,
		BlockedApps:  blocked,
	})
	s.notifier.ShowSessionStarted(platform.SessionNotice{ScheduleName: sch.Name, EndsAt: end, BlockedApps: blocked})
	s.notifier.ShowOngoing(s.ongoing(s.state.Snapshot(), now))
	s.startCountdown(ctx, row.ID)

	s.logger.InfoContext(ctx, "session started",
		"session_id", row.ID, "schedule", sch.Name, "ends_at", end, "blocked_apps", blocked)
	return &Activation{
		Schedule:    sch,
		SessionID:   row.ID,
		StartTime:   now,
		EndTime:     end,
		BlockedApps: blocked,
	}, nil
}

// RequestEndConfirmation arms the one-shot end gate. The gate has no
// timeout. It reports false when idle.
func (s *Supervisor) RequestEndConfirmation() bool {
	snap, ok := s.state.setAwaitingEndConfirmation(true)
	if ok {
		s.notifier.ShowOngoing(s.ongoing(snap, s.now()))
	}
	return ok
}

// CancelEndConfirmation clears the gate. It reports false when idle.
func (s *Supervisor) CancelEndConfirmation() bool {
	snap, ok := s.state.setAwaitingEndConfirmation(false)
	if ok {
		s.notifier.ShowOngoing(s.ongoing(snap, s.now()))
	}
	return ok
}

// Extend pushes the end time back by minutes. There is no upper bound.
func (s *Supervisor) Extend(minutes int) (bool, error) {
	if !s.state.IsBlocking() {
		return false, nil
	}
	if minutes <= 0 {
		return false, fmt.Errorf("extend by %d: %w", minutes, domain.ErrInvalidExtension)
	}
	snap, ok := s.state.extend(time.Duration(minutes) * time.Minute)
	if ok {
		s.notifier.ShowOngoing(s.ongoing(snap, s.now()))
		s.logger.Info("session extended", "session_id", snap.SessionID, "minutes", minutes, "ends_at", snap.EndTime)
	}
	return ok, nil
}

// EndSession closes the running session. completed=false is a forced end.
// It returns nil, nil when idle.
func (s *Supervisor) EndSession(ctx context.Context, completed bool) (*Completion, error) {
	c, done, err := s.end(ctx, completed, "")
	if done != nil {
		<-done
	}
	return c, err
}

// end performs the transition. When expectID is set, the call comes from the
// countdown of that session and is ignored if another session is running.
// The caller waits on the returned channel (if any) outside the lock.
func (s *Supervisor) end(ctx context.Context, completed bool, expectID string) (*Completion, chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.state.Snapshot()
	if !snap.IsBlocking || (expectID != "" && snap.SessionID != expectID) {
		return nil, nil, nil
	}

	now := s.now()
	if snap.SessionID != "" {
		closed, err := s.ledger.Close(ctx, snap.SessionID, now, completed)
		if err != nil {
			return nil, nil, fmt.Errorf("closing session: %w", err)
		}
		if !closed && completed {
			// Another process reconciled the row as unsuccessful; the
			// streak follows the ledger.
			s.logger.WarnContext(ctx, "session row already closed, streak not updated", "session_id", snap.SessionID)
			completed = false
		}
	}

	done := s.stopCountdown()
	if expectID != "" {
		// Called from the countdown goroutine itself.
		done = nil
	}
	s.state.Reset()
	s.notifier.Dismiss()

	c := &Completion{SessionID: snap.SessionID, Completed: completed, EndTime: now}
	s.logger.InfoContext(ctx, "session ended", "session_id", snap.SessionID, "completed", completed)
	if !completed {
		return c, done, nil
	}

	milestone, err := s.streaks.OnSessionCompleted(ctx, now)
	if err != nil {
		return c, done, fmt.Errorf("updating streak: %w", err)
	}
	if milestone > 0 {
		c.Milestone = milestone
		s.notifier.ShowMilestone(milestone)
	}
	return c, done, nil
}

// Shutdown stops the countdown without touching the ledger; the next
// startup reconciliation closes the open row.
func (s *Supervisor) Shutdown() {
	s.mu.Lock()
	done := s.stopCountdown()
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (s *Supervisor) startCountdown(ctx context.Context, sessionID string) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	s.cancel, s.done = cancel, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s.onTick(ctx, sessionID) {
					return
				}
			}
		}
	}()
}

// stopCountdown must be called with s.mu held.
func (s *Supervisor) stopCountdown() chan struct{} {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	done := s.done
	s.cancel, s.done = nil, nil
	return done
}

// onTick reports whether the countdown should stop.
func (s *Supervisor) onTick(ctx context.Context, sessionID string) bool {
	snap := s.state.Snapshot()
	if !snap.IsBlocking || snap.SessionID != sessionID {
		return true
	}
	now := s.now()
	if now.Before(snap.EndTime) {
		s.notifier.ShowOngoing(s.ongoing(snap, now))
		return false
	}

	c, _, err := s.end(ctx, true, sessionID)
	if err != nil {
		// The row is still open and State untouched; retry next tick.
		s.logger.ErrorContext(ctx, "ending expired session", "session_id", sessionID, "error", err)
		return c != nil
	}
	return true
}

func (s *Supervisor) ongoing(snap Snapshot, now time.Time) platform.OngoingStatus {
	return platform.OngoingStatus{
		ScheduleName:            snap.ScheduleName,
		Remaining:               snap.Remaining(now),
		BlockedApps:             snap.BlockedApps,
		AwaitingEndConfirmation: snap.AwaitingEndConfirmation,
	}
}
