package platform

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/alexanderramin/lockedin/internal/cli/formatter"
)

// Terminal implements the output-side ports by writing styled lines to w.
// It is safe for concurrent use: the countdown goroutine and the input loop
// both write through it.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer

	// Reader flags reported through TokenReader.
	ReaderSupported bool
	ReaderEnabled   bool
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w, ReaderSupported: true, ReaderEnabled: true}
}

var (
	_ Interceptor    = (*Terminal)(nil)
	_ StatusNotifier = (*Terminal)(nil)
	_ Feedback       = (*Terminal)(nil)
	_ Presenter      = (*Terminal)(nil)
	_ TokenReader    = (*Terminal)(nil)
)

// Println writes one line under the terminal lock.
func (t *Terminal) Println(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, s)
}

func (t *Terminal) SendHome(context.Context) error {
	t.Println(formatter.Dim("⌂ returned to home screen"))
	return nil
}

func (t *Terminal) ShowInterstitial(_ context.Context, packageName string) error {
	t.Println(formatter.RenderBox("Locked in", fmt.Sprintf("%s is blocked until your session ends.",
		formatter.StyleRed.Render(packageName))))
	return nil
}

func (t *Terminal) ShowSessionStarted(n SessionNotice) {
	t.Println(formatter.StyleGreen.Render("▶ Session started: ") + formatter.Bold(n.ScheduleName) +
		formatter.Dim(fmt.Sprintf(" until %s, %d apps blocked", n.EndsAt.Format("Mon 15:04"), n.BlockedApps)))
}

func (t *Terminal) ShowOngoing(s OngoingStatus) {
	line := formatter.SessionIndicator(true) + " " + s.Text()
	if s.AwaitingEndConfirmation {
		line += formatter.StyleYellow.Render("  (tap token again to end)")
	}
	t.Println(line)
}

func (t *Terminal) Dismiss() {
	t.Println(formatter.SessionIndicator(false) + formatter.Dim(" session notification cleared"))
}

func (t *Terminal) ShowMilestone(days int) {
	t.Println(formatter.RenderBox("Milestone", formatter.StyleYellow.Render(formatter.MilestoneMessage(days))))
}

func (t *Terminal) Haptic(kind HapticKind) {
	if kind == HapticError {
		t.Println(formatter.StyleRed.Render("✗ bzz-bzz"))
		return
	}
	t.Println(formatter.StyleGreen.Render("✓ bzz"))
}

func (t *Terminal) Notice(msg string) {
	t.Println(formatter.StyleBlue.Render("» ") + msg)
}

func (t *Terminal) ShowActiveSessionDialog(info ActiveSessionInfo) {
	opts := make([]string, 0, len(info.Extend))
	for _, m := range info.Extend {
		opts = append(opts, fmt.Sprintf("extend %d", m))
	}
	body := fmt.Sprintf("%s\n%s remaining · %d apps blocked\n\n%s",
		formatter.Bold(info.ScheduleName),
		formatter.FormatRemaining(info.Remaining),
		info.BlockedApps,
		formatter.Dim(strings.Join(append(opts, "end", "cancel"), " | ")))
	t.Println(formatter.RenderBox("Session active", body))
}

func (t *Terminal) IsTokenReaderSupported() bool { return t.ReaderSupported }
func (t *Terminal) IsTokenReaderEnabled() bool   { return t.ReaderEnabled }

// LineSource is a ForegroundSource fed by the host's `fg <pkg>` command.
type LineSource struct {
	events  chan string
	granted bool
}

func NewLineSource(buffer int) *LineSource {
	return &LineSource{events: make(chan string, buffer), granted: true}
}

var _ ForegroundSource = (*LineSource)(nil)

func (s *LineSource) IsMonitoringPermissionGranted() bool { return s.granted }
func (s *LineSource) Events() <-chan string               { return s.events }

// Push queues a foreground event, blocking until there is room or ctx ends.
func (s *LineSource) Push(ctx context.Context, pkg string) error {
	select {
	case s.events <- pkg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close ends the event stream.
func (s *LineSource) Close() {
	close(s.events)
}
