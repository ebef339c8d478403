package domain

import (
	"fmt"
	"time"
)

// StatsTotals aggregates the whole ledger.
type StatsTotals struct {
	Sessions          int
	CompletedSessions int
	BlockedAttempts   int
	TimeSavedSeconds  int64
}

// Bucket aggregates the sessions that started inside [Start, End).
type Bucket struct {
	Label            string
	Start            time.Time
	End              time.Time
	Sessions         int
	BlockedAttempts  int
	TimeSavedSeconds int64
	Current          bool // today for daily buckets, this week for weekly ones
}

func (b *Bucket) add(s SessionStatistic) {
	if s.StartTime.Before(b.Start) || !s.StartTime.Before(b.End) {
		return
	}
	b.Sessions++
	b.BlockedAttempts += s.BlockedAttempts
	b.TimeSavedSeconds += s.TimeSavedSeconds
}

// ComputeTotals sums every row in stats.
func ComputeTotals(stats []*SessionStatistic) StatsTotals {
	var t StatsTotals
	for _, s := range stats {
		t.Sessions++
		if s.CompletedSuccessfully {
			t.CompletedSessions++
		}
		t.BlockedAttempts += s.BlockedAttempts
		t.TimeSavedSeconds += s.TimeSavedSeconds
	}
	return t
}

// DailyBuckets returns one bucket per local day for the last days days,
// oldest first, ending with today.
func DailyBuckets(stats []*SessionStatistic, now time.Time, days int) []Bucket {
	today := Midnight(now)
	buckets := make([]Bucket, 0, days)
	for ago := days - 1; ago >= 0; ago-- {
		start := today.AddDate(0, 0, -ago)
		b := Bucket{
			Label:   start.Format("Mon"),
			Start:   start,
			End:     start.AddDate(0, 0, 1),
			Current: ago == 0,
		}
		for _, s := range stats {
			b.add(*s)
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// WeekStart returns the Sunday midnight that starts the week containing t.
func WeekStart(t time.Time) time.Time {
	day := Midnight(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// WeeklyBuckets returns one bucket per Sunday-started week for the last
// weeks weeks, oldest first, ending with the current week.
func WeeklyBuckets(stats []*SessionStatistic, now time.Time, weeks int) []Bucket {
	current := WeekStart(now)
	buckets := make([]Bucket, 0, weeks)
	for ago := weeks - 1; ago >= 0; ago-- {
		start := current.AddDate(0, 0, -7*ago)
		label := "This Week"
		if ago > 0 {
			label = fmt.Sprintf("%dw ago", ago)
		}
		b := Bucket{
			Label:   label,
			Start:   start,
			End:     start.AddDate(0, 0, 7),
			Current: ago == 0,
		}
		for _, s := range stats {
			b.add(*s)
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// StatsSummary is the dashboard view over the ledger.
type StatsSummary struct {
	Totals StatsTotals
	Daily  []Bucket
	Weekly []Bucket
}

// Summarize builds the 7-day and 4-week views ending at now.
func Summarize(stats []*SessionStatistic, now time.Time) StatsSummary {
	return StatsSummary{
		Totals: ComputeTotals(stats),
		Daily:  DailyBuckets(stats, now, 7),
		Weekly: WeeklyBuckets(stats, now, 4),
	}
}

// FormatTimeSaved renders seconds as "45s", "12m" or "2h 5m".
func FormatTimeSaved(seconds int64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm", seconds/60)
	default:
		return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
	}
}
