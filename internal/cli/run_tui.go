package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/lockedin/internal/cli/formatter"
	"github.com/alexanderramin/lockedin/internal/host"
	"github.com/alexanderramin/lockedin/internal/platform"
	"github.com/alexanderramin/lockedin/internal/session"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const maxLogLines = 12

type (
	engineLineMsg string
	dialogMsg     platform.ActiveSessionInfo
	snapshotMsg   session.Snapshot
	clockMsg      time.Time
	execResultMsg struct {
		line string
		out  string
		err  error
	}
)

// programSink turns engine output into tea messages. Messages produced
// before a program is attached are queued and flushed on attach.
type programSink struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	pending []tea.Msg
}

func (s *programSink) attach(send func(tea.Msg)) {
	s.mu.Lock()
	pending := s.pending
	s.send, s.pending = send, nil
	s.mu.Unlock()
	for _, msg := range pending {
		send(msg)
	}
}

func (s *programSink) dispatch(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	if send == nil {
		s.pending = append(s.pending, msg)
	}
	s.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (s *programSink) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		s.dispatch(engineLineMsg(line))
	}
	return len(p), nil
}

func (s *programSink) ShowActiveSessionDialog(info platform.ActiveSessionInfo) {
	s.dispatch(dialogMsg(info))
}

func runInteractive(ctx context.Context, app *App, force bool, src *platform.LineSource) error {
	sink := &programSink{}
	ports := host.TerminalPorts(platform.NewTerminal(sink))
	ports.Presenter = sink
	h := app.newHost(foregroundPorts(ports, src))

	report, err := startEngine(ctx, h, force)
	if err != nil {
		return err
	}
	defer h.Stop()

	m := newRunModel(ctx, h)
	if note := reconcileNote(report); note != "" {
		m.appendLog(note)
	}
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	sink.attach(p.Send)
	unsubscribe := h.State().Subscribe(func(s session.Snapshot) { p.Send(snapshotMsg(s)) })
	defer unsubscribe()

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// runModel is the interactive view of a running engine: live session
// header, recent engine output and a command prompt.
type runModel struct {
	ctx  context.Context
	host *host.Host
	now  func() time.Time

	input    textinput.Model
	spinner  spinner.Model
	progress progress.Model

	snap   session.Snapshot
	log    []string
	dialog *huh.Form
	choice string
	busy   bool
	width  int
}

func newRunModel(ctx context.Context, h *host.Host) *runModel {
	in := textinput.New()
	in.Placeholder = "tap <token> · fg <package> · end · help"
	in.Prompt = "› "
	in.PromptStyle = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	in.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	return &runModel{
		ctx:      ctx,
		host:     h,
		now:      time.Now,
		input:    in,
		spinner:  sp,
		progress: progress.New(progress.WithGradient(string(formatter.ColorBlue), string(formatter.ColorGreen)), progress.WithWidth(40)),
		snap:     h.State().Snapshot(),
		width:    80,
	}
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func (m *runModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, clockTick())
}

func (m *runModel) appendLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

func (m *runModel) exec(line string) tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		out, err := m.host.Exec(m.ctx, line)
		return execResultMsg{line: line, out: out, err: err}
	}
}

func dialogForm(info platform.ActiveSessionInfo, choice *string) *huh.Form {
	opts := make([]huh.Option[string], 0, len(info.Extend)+2)
	for _, mins := range info.Extend {
		opts = append(opts, huh.NewOption(fmt.Sprintf("Extend %s", formatter.FormatMinutes(mins)), fmt.Sprintf("extend %d", mins)))
	}
	opts = append(opts,
		huh.NewOption("End now (tap token to confirm)", "end"),
		huh.NewOption("Dismiss", ""),
	)
	title := fmt.Sprintf("%s · %s remaining · %d apps blocked",
		info.ScheduleName, formatter.FormatRemaining(info.Remaining), info.BlockedApps)
	return huh.NewForm(
		huh.NewGroup(huh.NewSelect[string]().Title(title).Options(opts...).Value(choice)),
	).WithTheme(lockedinHuhTheme()).WithShowHelp(false)
}

func (m *runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.dialog != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
			m.dialog = nil
			return m, nil
		}
		if _, ok := msg.(tea.KeyMsg); ok {
			return m.updateDialog(msg)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(max(msg.Width-20, 10), 60)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			switch line {
			case "":
				return m, nil
			case "quit", "exit":
				return m, tea.Quit
			}
			m.appendLog(formatter.Dim("› " + line))
			return m, m.exec(line)
		}

	case execResultMsg:
		m.busy = false
		if msg.err != nil {
			m.appendLog(formatter.StyleRed.Render("Error: " + msg.err.Error()))
		} else if msg.out != "" {
			for _, l := range strings.Split(msg.out, "\n") {
				m.appendLog(l)
			}
		}
		m.snap = m.host.State().Snapshot()
		return m, nil

	case engineLineMsg:
		m.appendLog(string(msg))
		return m, nil

	case snapshotMsg:
		m.snap = session.Snapshot(msg)
		return m, nil

	case dialogMsg:
		m.choice = ""
		m.dialog = dialogForm(platform.ActiveSessionInfo(msg), &m.choice)
		return m, m.dialog.Init()

	case clockMsg:
		m.snap = m.host.State().Snapshot()
		return m, clockTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.dialog != nil {
		return m.updateDialog(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *runModel) updateDialog(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.dialog.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.dialog = f
	}
	switch m.dialog.State {
	case huh.StateCompleted:
		m.dialog = nil
		if m.choice == "" {
			return m, nil
		}
		m.appendLog(formatter.Dim("› " + m.choice))
		return m, m.exec(m.choice)
	case huh.StateAborted:
		m.dialog = nil
		return m, nil
	}
	return m, cmd
}

func (m *runModel) header() string {
	if !m.snap.IsBlocking {
		return formatter.SessionIndicator(false) + formatter.Dim("  tap your token to start a session")
	}
	now := m.now()
	line := fmt.Sprintf("%s %s  %s  %s remaining · %d apps blocked",
		m.spinner.View(),
		formatter.SessionIndicator(true),
		formatter.Bold(m.snap.ScheduleName),
		formatter.FormatRemaining(m.snap.Remaining(now)),
		m.snap.BlockedApps,
	)
	if m.snap.AwaitingEndConfirmation {
		line += formatter.StyleYellow.Render("  tap token to end")
	}
	return line + "\n" + m.progress.ViewAs(m.snap.Progress(now))
}

func (m *runModel) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	for _, l := range m.log {
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.dialog != nil {
		b.WriteString(formatter.RenderBox("Session active", m.dialog.View()))
		b.WriteString(formatter.Dim("esc to dismiss"))
		return b.String()
	}
	b.WriteString(m.input.View())
	if m.busy {
		b.WriteString(formatter.Dim("  working…"))
	}
	return b.String()
}
