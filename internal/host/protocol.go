package host

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alexanderramin/lockedin/internal/cli/formatter"
)

const helpText = `Commands:
  fg <package>      report a foreground app
  tap <token>       tap a physical token
  register          register the next tapped token
  register cancel   leave registration mode
  extend <minutes>  extend the running session
  end               ask to end the session (confirm with a tap)
  cancel            withdraw the end request
  status            show the live session
  help              show this help
  quit              stop the engine`

// Exec runs one protocol line and returns the text to show the user.
func (h *Host) Exec(ctx context.Context, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help", "?":
		return helpText, nil
	case "status":
		return h.LiveStatus(), nil
	}

	if !h.Running() {
		return "", ErrNotRunning
	}

	switch cmd {
	case "fg":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: fg <package>")
		}
		if h.Monitor.HandleForeground(ctx, args[0]) {
			return "intercepted " + args[0], nil
		}
		return "allowed " + args[0], nil

	case "tap":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: tap <token>")
		}
		ev, err := h.Dispatcher.HandleTap(ctx, args[0])
		if err != nil {
			return "", err
		}
		return ev.String(), nil

	case "register":
		if len(args) == 1 && strings.EqualFold(args[0], "cancel") {
			return h.Dispatcher.ExitRegistrationMode().String(), nil
		}
		if len(args) != 0 {
			return "", fmt.Errorf("usage: register [cancel]")
		}
		h.Dispatcher.EnterRegistrationMode()
		return "registration mode: tap the token to register", nil

	case "extend":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: extend <minutes>")
		}
		minutes, err := strconv.Atoi(args[0])
		if err != nil {
			return "", fmt.Errorf("invalid minutes %q", args[0])
		}
		ok, err := h.Supervisor.Extend(minutes)
		if err != nil {
			return "", err
		}
		if !ok {
			return "no active session", nil
		}
		snap := h.State().Snapshot()
		return fmt.Sprintf("extended by %d min, now ends at %s", minutes, snap.EndTime.Format("Mon 15:04")), nil

	case "end":
		if !h.Supervisor.RequestEndConfirmation() {
			return "no active session", nil
		}
		return "tap your token to confirm ending the session", nil

	case "cancel":
		if !h.Supervisor.CancelEndConfirmation() {
			return "no active session", nil
		}
		return "end request withdrawn", nil
	}

	return "", fmt.Errorf("unknown command %q (try 'help')", cmd)
}

// LiveStatus renders the in-memory session view.
func (h *Host) LiveStatus() string {
	snap := h.State().Snapshot()
	if !snap.IsBlocking {
		return formatter.SessionIndicator(false)
	}
	now := h.now()
	pairs := [][2]string{
		{"Schedule", formatter.Bold(snap.ScheduleName)},
		{"Remaining", formatter.FormatRemaining(snap.Remaining(now))},
		{"Ends", snap.EndTime.Format("Mon 15:04")},
		{"Blocked apps", strconv.Itoa(snap.BlockedApps)},
	}
	if snap.AwaitingEndConfirmation {
		pairs = append(pairs, [2]string{"End", formatter.StyleYellow.Render("waiting for token tap")})
	}
	return formatter.SessionIndicator(true) + "\n" +
		formatter.RenderProgress(snap.Progress(now), 30) + "\n" +
		formatter.RenderKeyValues(pairs)
}

// Serve reads protocol lines from r until EOF, `quit` or ctx ends. Command
// errors are reported on w and do not stop the loop.
func (h *Host) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "quit" || line == "exit" {
			return nil
		}
		out, err := h.Exec(ctx, line)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			continue
		}
		if out != "" {
			fmt.Fprintln(w, out)
		}
	}
	return sc.Err()
}
