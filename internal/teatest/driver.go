// Package teatest drives a tea.Model synchronously in tests: messages go
// straight to Update and the returned commands are executed and fed back
// until none remain. Commands that block (cursor blink, spinner and clock
// ticks) are abandoned after a short timeout.
package teatest

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds command chains such as tick loops.
const MaxDrainDepth = 100

const cmdTimeout = 20 * time.Millisecond

type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once tea.Quit has been returned.
	Quitting bool
}

type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// New wraps model and runs its Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	d.drain(d.Model.Init(), 0)
	return d
}

// Send delivers msg and drains the resulting commands.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.drain(cmd, 0)
}

func (d *Driver) key(k tea.KeyType) { d.Send(tea.KeyMsg{Type: k}) }

func (d *Driver) PressEnter() { d.key(tea.KeyEnter) }
func (d *Driver) PressEsc()   { d.key(tea.KeyEsc) }
func (d *Driver) PressDown()  { d.key(tea.KeyDown) }
func (d *Driver) PressCtrlC() { d.key(tea.KeyCtrlC) }

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Submit types line and presses Enter.
func (d *Driver) Submit(line string) {
	d.Type(line)
	d.PressEnter()
}

func (d *Driver) View() string {
	return d.Model.View()
}

// RequireView fails the test unless the rendered view contains want.
func (d *Driver) RequireView(want string) {
	d.T.Helper()
	if v := d.View(); !strings.Contains(v, want) {
		d.T.Fatalf("view does not contain %q:\n%s", want, v)
	}
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := run(cmd)
	if msg == nil || isBlink(msg) {
		return
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			d.drain(sub, depth+1)
		}
		return
	}
	if seq := sequence(msg); seq != nil {
		for _, sub := range seq {
			d.drain(sub, depth+1)
		}
		return
	}

	if _, ok := msg.(tea.QuitMsg); ok {
		d.Quitting = true
	}
	var next tea.Cmd
	d.Model, next = d.Model.Update(msg)
	if !d.Quitting {
		d.drain(next, depth+1)
	}
}

// run executes cmd, giving up after cmdTimeout.
func run(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

var cmdType = reflect.TypeOf((tea.Cmd)(nil))

// sequence unpacks the unexported message produced by tea.Sequence.
func sequence(msg tea.Msg) []tea.Cmd {
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice || v.Type().Elem() != cmdType {
		return nil
	}
	out := make([]tea.Cmd, v.Len())
	for i := range out {
		out[i], _ = v.Index(i).Interface().(tea.Cmd)
	}
	return out
}

// isBlink matches the unexported cursor blink messages of bubbles.
func isBlink(msg tea.Msg) bool {
	name := strings.ToLower(fmt.Sprintf("%T", msg))
	return strings.Contains(name, "blink")
}
