package platform

import (
	"bytes"
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func plain(b *bytes.Buffer) string { return ansi.ReplaceAllString(b.String(), "") }

func TestOngoingStatus_Text(t *testing.T) {
	s := OngoingStatus{Remaining: 7*time.Hour + 59*time.Minute, BlockedApps: 3}
	assert.Equal(t, "7h 59m remaining · 3 apps blocked", s.Text())
}

func TestTerminal_WritesPorts(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	ctx := context.Background()

	require.NoError(t, term.SendHome(ctx))
	require.NoError(t, term.ShowInterstitial(ctx, "com.x.social"))
	term.ShowOngoing(OngoingStatus{Remaining: time.Hour, BlockedApps: 2, AwaitingEndConfirmation: true})
	term.Haptic(HapticError)
	term.Notice("No schedule configured")
	term.ShowActiveSessionDialog(ActiveSessionInfo{ScheduleName: "Work", Remaining: time.Hour, Extend: ExtendOptions})

	out := plain(&buf)
	assert.Contains(t, out, "home screen")
	assert.Contains(t, out, "com.x.social is blocked")
	assert.Contains(t, out, "1h 0m remaining · 2 apps blocked")
	assert.Contains(t, out, "tap token again")
	assert.Contains(t, out, "bzz-bzz")
	assert.Contains(t, out, "No schedule configured")
	assert.Contains(t, out, "extend 30 | extend 60 | extend 120 | end | cancel")
}

func TestLineSource_PushAndClose(t *testing.T) {
	src := NewLineSource(1)
	require.NoError(t, src.Push(context.Background(), "com.a"))
	assert.Equal(t, "com.a", <-src.Events())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, src.Push(ctx, "com.b"))
	cancel()
	assert.ErrorIs(t, src.Push(ctx, "com.c"), context.Canceled)

	src.Close()
	<-src.Events()
	_, ok := <-src.Events()
	assert.False(t, ok)
}
