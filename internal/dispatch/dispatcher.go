// Package dispatch routes token taps to registration, validation and the
// session supervisor.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/alexanderramin/lockedin/internal/platform"
	"github.com/alexanderramin/lockedin/internal/service"
	"github.com/alexanderramin/lockedin/internal/session"
)

// Sessions is the part of the supervisor a tap can drive.
type Sessions interface {
	Start(ctx context.Context, scheduleID string) (*session.Activation, error)
	EndSession(ctx context.Context, completed bool) (*session.Completion, error)
	State() *session.State
}

const (
	msgWrongTag     = "Wrong token. Please use your registered token."
	msgNoSchedule   = "No schedule configured. Please set up a schedule first."
	msgRegistered   = "Token registered successfully!"
	msgStartedFmt   = "Focus session activated: %s"
	msgSessionEnded = "Focus session ended."
)

type Dispatcher struct {
	tokens    service.TokenService
	sessions  Sessions
	feedback  platform.Feedback
	presenter platform.Presenter
	reader    platform.TokenReader
	logger    *slog.Logger
	now       func() time.Time

	mu          sync.Mutex
	registering bool
	lastEvent   TapEvent
}

type Option func(*Dispatcher)

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

func New(
	tokens service.TokenService,
	sessions Sessions,
	feedback platform.Feedback,
	presenter platform.Presenter,
	reader platform.TokenReader,
	logger *slog.Logger,
	opts ...Option,
) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	d := &Dispatcher{
		tokens:    tokens,
		sessions:  sessions,
		feedback:  feedback,
		presenter: presenter,
		reader:    reader,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) IsTokenReaderSupported() bool { return d.reader.IsTokenReaderSupported() }
func (d *Dispatcher) IsTokenReaderEnabled() bool   { return d.reader.IsTokenReaderEnabled() }

// EnterRegistrationMode makes the next tap register its token.
func (d *Dispatcher) EnterRegistrationMode() {
	d.mu.Lock()
	d.registering = true
	d.mu.Unlock()
	d.logger.Info("entered token registration mode")
}

// ExitRegistrationMode leaves registration mode without registering.
func (d *Dispatcher) ExitRegistrationMode() TapEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.registering = false
	d.lastEvent = RegistrationCancelled{}
	d.logger.Info("exited token registration mode")
	return d.lastEvent
}

func (d *Dispatcher) InRegistrationMode() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registering
}

// LastEvent returns the most recent tap outcome, or nil.
func (d *Dispatcher) LastEvent() TapEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastEvent
}

// HandleTap applies the tap policy in order: registration, token
// validation, end confirmation or active-session dialog, session start.
// Taps are handled one at a time.
func (d *Dispatcher) HandleTap(ctx context.Context, tokenID string) (TapEvent, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ev, err := d.handle(ctx, tokenID)
	if err != nil {
		d.feedback.Haptic(platform.HapticError)
		d.logger.ErrorContext(ctx, "token tap failed", "error", err)
		return nil, err
	}
	d.lastEvent = ev
	d.logger.InfoContext(ctx, "token tap handled", "event", ev.String())
	return ev, nil
}

func (d *Dispatcher) handle(ctx context.Context, tokenID string) (TapEvent, error) {
	if d.registering {
		token, err := d.tokens.Register(ctx, tokenID, "")
		if err != nil {
			return nil, fmt.Errorf("registering token: %w", err)
		}
		d.registering = false
		d.feedback.Haptic(platform.HapticSuccess)
		d.feedback.Notice(msgRegistered)
		return TagRegistered{TokenID: token.TokenID}, nil
	}

	v, err := d.tokens.Validate(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("validating token: %w", err)
	}
	if !v.Accepted() {
		d.feedback.Haptic(platform.HapticError)
		d.feedback.Notice(msgWrongTag)
		return WrongTag{Scanned: v.Got, Expected: v.Expected}, nil
	}

	snap := d.sessions.State().Snapshot()
	if snap.IsBlocking {
		if snap.AwaitingEndConfirmation {
			if _, err := d.sessions.EndSession(ctx, false); err != nil {
				return nil, fmt.Errorf("ending session: %w", err)
			}
			d.feedback.Haptic(platform.HapticSuccess)
			d.feedback.Notice(msgSessionEnded)
			return SessionEnded{Confirmed: true}, nil
		}
		d.feedback.Haptic(platform.HapticSuccess)
		d.presenter.ShowActiveSessionDialog(platform.ActiveSessionInfo{
			ScheduleName: snap.ScheduleName,
			Remaining:    snap.Remaining(d.now()),
			BlockedApps:  snap.BlockedApps,
			Extend:       platform.ExtendOptions,
		})
		return ActiveSessionPrompt{ScheduleName: snap.ScheduleName}, nil
	}

	act, err := d.sessions.Start(ctx, "")
	if errors.Is(err, domain.ErrNoScheduleConfigured) {
		d.feedback.Haptic(platform.HapticError)
		d.feedback.Notice(msgNoSchedule)
		return NoScheduleConfigured{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("starting session: %w", err)
	}
	d.feedback.Haptic(platform.HapticSuccess)
	d.feedback.Notice(fmt.Sprintf(msgStartedFmt, act.Schedule.Name))
	return SessionStarted{ScheduleName: act.Schedule.Name, SessionID: act.SessionID}, nil
}
