// Package platform declares the OS capabilities the engine depends on and
// ships terminal-backed implementations of them.
package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/lockedin/internal/cli/formatter"
)

// ForegroundSource yields the identifier of each app brought to the
// foreground. Monitoring requires a user-granted permission.
type ForegroundSource interface {
	IsMonitoringPermissionGranted() bool
	Events() <-chan string
}

// TokenReader reports whether physical-token scanning is available.
type TokenReader interface {
	IsTokenReaderSupported() bool
	IsTokenReaderEnabled() bool
}

// Interceptor redirects the user away from a blocked app.
type Interceptor interface {
	SendHome(ctx context.Context) error
	ShowInterstitial(ctx context.Context, packageName string) error
}

// OngoingStatus is the content of the persistent session notification.
type OngoingStatus struct {
	ScheduleName            string
	Remaining               time.Duration
	BlockedApps             int
	AwaitingEndConfirmation bool
}

// Text renders the notification body, e.g. "7h 59m remaining · 3 apps blocked".
func (s OngoingStatus) Text() string {
	return fmt.Sprintf("%s remaining · %d apps blocked", formatter.FormatRemaining(s.Remaining), s.BlockedApps)
}

// SessionNotice describes a session that just started.
type SessionNotice struct {
	ScheduleName string
	EndsAt       time.Time
	BlockedApps  int
}

// StatusNotifier drives the persistent status indicator of a running session.
type StatusNotifier interface {
	ShowSessionStarted(n SessionNotice)
	ShowOngoing(s OngoingStatus)
	Dismiss()
	ShowMilestone(days int)
}

type HapticKind int

const (
	HapticSuccess HapticKind = iota
	HapticError
)

func (k HapticKind) String() string {
	if k == HapticError {
		return "error"
	}
	return "success"
}

// Feedback delivers haptics and transient notices (toasts).
type Feedback interface {
	Haptic(kind HapticKind)
	Notice(msg string)
}

// ExtendOptions are the minutes offered by the active-session dialog.
var ExtendOptions = []int{30, 60, 120}

// ActiveSessionInfo backs the dialog shown when a token is tapped while a
// session is running.
type ActiveSessionInfo struct {
	ScheduleName string
	Remaining    time.Duration
	BlockedApps  int
	Extend       []int
}

// Presenter shows modal UI. The dialog's choices are routed back to the
// supervisor by the host (extend, end now, dismiss).
type Presenter interface {
	ShowActiveSessionDialog(info ActiveSessionInfo)
}
