package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexanderramin/lockedin/internal/platform"
)

// RecordingPlatform implements every output port and records each call as a
// short string such as "home", "interstitial:com.x" or "haptic:error".
type RecordingPlatform struct {
	mu       sync.Mutex
	calls    []string
	Ongoing  []platform.OngoingStatus
	Dialogs  []platform.ActiveSessionInfo
	Notices  []string
	Started  []platform.SessionNotice
	HomeErr  error
	Reader   bool
	Disabled bool
}

func NewRecordingPlatform() *RecordingPlatform {
	return &RecordingPlatform{Reader: true}
}

var (
	_ platform.Interceptor    = (*RecordingPlatform)(nil)
	_ platform.StatusNotifier = (*RecordingPlatform)(nil)
	_ platform.Feedback       = (*RecordingPlatform)(nil)
	_ platform.Presenter      = (*RecordingPlatform)(nil)
	_ platform.TokenReader    = (*RecordingPlatform)(nil)
)

func (r *RecordingPlatform) record(s string) {
	r.mu.Lock()
	r.calls = append(r.calls, s)
	r.mu.Unlock()
}

// Calls returns a copy of the recorded call log.
func (r *RecordingPlatform) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Count returns how many recorded calls equal call.
func (r *RecordingPlatform) Count(call string) int {
	n := 0
	for _, c := range r.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (r *RecordingPlatform) SendHome(context.Context) error {
	r.record("home")
	return r.HomeErr
}

func (r *RecordingPlatform) ShowInterstitial(_ context.Context, pkg string) error {
	r.record("interstitial:" + pkg)
	return nil
}

func (r *RecordingPlatform) ShowSessionStarted(n platform.SessionNotice) {
	r.mu.Lock()
	r.Started = append(r.Started, n)
	r.mu.Unlock()
	r.record("started:" + n.ScheduleName)
}

func (r *RecordingPlatform) ShowOngoing(s platform.OngoingStatus) {
	r.mu.Lock()
	r.Ongoing = append(r.Ongoing, s)
	r.mu.Unlock()
	r.record("ongoing")
}

func (r *RecordingPlatform) Dismiss() { r.record("dismiss") }

func (r *RecordingPlatform) ShowMilestone(days int) {
	r.record(fmt.Sprintf("milestone:%d", days))
}

func (r *RecordingPlatform) Haptic(kind platform.HapticKind) {
	r.record("haptic:" + kind.String())
}

func (r *RecordingPlatform) Notice(msg string) {
	r.mu.Lock()
	r.Notices = append(r.Notices, msg)
	r.mu.Unlock()
	r.record("notice")
}

func (r *RecordingPlatform) ShowActiveSessionDialog(info platform.ActiveSessionInfo) {
	r.mu.Lock()
	r.Dialogs = append(r.Dialogs, info)
	r.mu.Unlock()
	r.record("dialog")
}

func (r *RecordingPlatform) IsTokenReaderSupported() bool { return r.Reader }
func (r *RecordingPlatform) IsTokenReaderEnabled() bool   { return r.Reader && !r.Disabled }
