package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stat(start time.Time, attempts int, completed bool) *SessionStatistic {
	end := start.Add(time.Hour)
	return &SessionStatistic{
		ID:                    start.Format(time.RFC3339),
		StartTime:             start,
		EndTime:               &end,
		BlockedAttempts:       attempts,
		TimeSavedSeconds:      int64(attempts) * 300,
		CompletedSuccessfully: completed,
	}
}

func TestComputeTotals(t *testing.T) {
	now := time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)
	stats := []*SessionStatistic{
		stat(now.Add(-2*time.Hour), 3, true),
		stat(now.AddDate(0, 0, -1), 1, false),
		stat(now.AddDate(0, 0, -20), 0, true),
	}
	totals := ComputeTotals(stats)
	assert.Equal(t, StatsTotals{Sessions: 3, CompletedSessions: 2, BlockedAttempts: 4, TimeSavedSeconds: 1200}, totals)
}

func TestDailyBuckets(t *testing.T) {
	now := time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC) // Wednesday
	stats := []*SessionStatistic{
		stat(now.Add(-time.Hour), 2, true),
		stat(time.Date(2026, 4, 14, 0, 0, 0, 0, time.UTC), 1, true),
		stat(time.Date(2026, 4, 8, 23, 59, 0, 0, time.UTC), 5, true), // one day before the window
	}
	buckets := DailyBuckets(stats, now, 7)
	require.Len(t, buckets, 7)

	assert.Equal(t, "Thu", buckets[0].Label)
	assert.Equal(t, "Wed", buckets[6].Label)
	assert.True(t, buckets[6].Current)
	assert.Equal(t, 2, buckets[6].BlockedAttempts)
	assert.Equal(t, int64(600), buckets[6].TimeSavedSeconds)
	assert.Equal(t, 1, buckets[5].BlockedAttempts)

	var total int
	for _, b := range buckets {
		total += b.BlockedAttempts
	}
	assert.Equal(t, 3, total)
}

func TestWeeklyBuckets(t *testing.T) {
	now := time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC) // Wednesday; week starts Sun Apr 12
	stats := []*SessionStatistic{
		stat(time.Date(2026, 4, 12, 8, 0, 0, 0, time.UTC), 2, true),
		stat(time.Date(2026, 4, 11, 8, 0, 0, 0, time.UTC), 4, true),
		stat(time.Date(2026, 3, 22, 8, 0, 0, 0, time.UTC), 1, true),
		stat(time.Date(2026, 3, 21, 8, 0, 0, 0, time.UTC), 9, true), // outside
	}
	buckets := WeeklyBuckets(stats, now, 4)
	require.Len(t, buckets, 4)

	assert.Equal(t, time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC), buckets[3].Start)
	assert.Equal(t, "This Week", buckets[3].Label)
	assert.Equal(t, "3w ago", buckets[0].Label)
	assert.Equal(t, 2, buckets[3].BlockedAttempts)
	assert.Equal(t, 4, buckets[2].BlockedAttempts)
	assert.Equal(t, 1, buckets[0].BlockedAttempts)
}

func TestFormatTimeSaved(t *testing.T) {
	assert.Equal(t, "0s", FormatTimeSaved(0))
	assert.Equal(t, "59s", FormatTimeSaved(59))
	assert.Equal(t, "5m", FormatTimeSaved(300))
	assert.Equal(t, "1h 0m", FormatTimeSaved(3600))
	assert.Equal(t, "2h 5m", FormatTimeSaved(7500))
}
