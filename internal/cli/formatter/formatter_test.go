package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0h 0m"},
		{30 * time.Second, "0h 1m"},
		{59 * time.Minute, "0h 59m"},
		{8 * time.Hour, "8h 0m"},
		{8*time.Hour - 30*time.Second, "8h 0m"},
		{90*time.Minute + time.Second, "1h 31m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRemaining(tt.in), tt.in.String())
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0m", FormatMinutes(0))
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "8h", FormatMinutes(480))
	assert.Equal(t, "1h 30m", FormatMinutes(90))
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", HumanTimestamp(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestamp(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestamp(now.Add(-3*time.Hour), now))
	assert.Equal(t, "Yesterday", HumanTimestamp(now.Add(-30*time.Hour), now))
	assert.Equal(t, "Apr 1, 2025", HumanTimestamp(now.AddDate(0, 0, -9), now))
}

func TestRenderProgress_Clamps(t *testing.T) {
	assert.Contains(t, stripANSI(RenderProgress(-1, 4)), "░░░░")
	assert.Contains(t, stripANSI(RenderProgress(2, 4)), "████] 100%")
	assert.Contains(t, stripANSI(RenderProgress(0.5, 4)), "██░░]  50%")
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "B"}, [][]string{
		{StyleGreen.Render("long cell"), "x"},
		{"s", "y"},
	}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, strings.Index(lines[2], "x"), strings.Index(lines[3], "y"))
}

func TestFormatScheduleList(t *testing.T) {
	s := &domain.Schedule{ID: "0123456789", Name: "Night", StartMinute: 1320, EndMinute: 360, DaysOfWeek: domain.AllDays, Enabled: true}
	out := stripANSI(FormatScheduleList([]*domain.Schedule{s}, s.ID))
	assert.Contains(t, out, "→")
	assert.Contains(t, out, "22:00–06:00 (overnight)")
	assert.Contains(t, out, "8h")
	assert.Contains(t, out, "01234567")

	assert.Contains(t, stripANSI(FormatScheduleList(nil, "")), "No schedules")
}

func TestFormatStats(t *testing.T) {
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.Local)
	rows := []*domain.SessionStatistic{{
		ID: "a", StartTime: now.Add(-time.Hour), BlockedAttempts: 3, TimeSavedSeconds: 900, CompletedSuccessfully: true,
	}}
	summary := domain.Summarize(rows, now)
	out := stripANSI(FormatStats(&summary))
	assert.Contains(t, out, "TOTALS")
	assert.Contains(t, out, "15m")
	assert.Contains(t, out, "1 (1 completed)")
	assert.Contains(t, out, "This Week")
	assert.Contains(t, out, now.Format("Mon"))
}

func TestRenderSavedChart_NotEmpty(t *testing.T) {
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.Local)
	buckets := domain.DailyBuckets(nil, now, 7)
	assert.NotEmpty(t, RenderSavedChart(buckets, 40, 8))
}

func TestFormatToken(t *testing.T) {
	assert.Contains(t, stripANSI(FormatToken(nil)), "any token")
	assert.Equal(t, "A1B2 (keys)", stripANSI(FormatToken(&domain.RegisteredToken{TokenID: "A1B2", Nickname: "keys"})))
}

func TestFormatStreak_NextMilestone(t *testing.T) {
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.Local)
	out := stripANSI(FormatStreak(&domain.StreakData{CurrentStreak: 8, LongestStreak: 12}, now))
	assert.Contains(t, out, "30 days (22 to go)")
}
