package domain

import "time"

// Milestones are the streak lengths that trigger a one-time celebration,
// in ascending order.
var Milestones = []int{7, 30, 100}

// StreakData is the singleton streak row. LastCompletedDate is the local
// midnight of the last day with a successfully completed session.
type StreakData struct {
	CurrentStreak      int
	LongestStreak      int
	LastCompletedDate  *time.Time
	LastMilestoneShown int
}

// StreakUpdate describes the effect of one completed session.
type StreakUpdate struct {
	Counted   bool // false when a session was already counted today
	Milestone int  // 0 when no new milestone was crossed
}

// Midnight truncates t to the start of its day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Complete applies a successful session completion at now and returns the
// new streak row. Completing twice on the same day is a no-op.
func (s StreakData) Complete(now time.Time) (StreakData, StreakUpdate) {
	today := Midnight(now)
	yesterday := today.AddDate(0, 0, -1)

	if s.LastCompletedDate != nil && s.LastCompletedDate.Equal(today) {
		return s, StreakUpdate{}
	}

	next := s
	if s.LastCompletedDate != nil && s.LastCompletedDate.Equal(yesterday) {
		next.CurrentStreak = s.CurrentStreak + 1
	} else {
		next.CurrentStreak = 1
	}
	next.LongestStreak = max(s.LongestStreak, next.CurrentStreak)
	next.LastCompletedDate = &today

	update := StreakUpdate{Counted: true}
	if m := next.UnshownMilestone(); m > 0 {
		next.LastMilestoneShown = m
		update.Milestone = m
	}
	return next, update
}

// NeedsReset reports whether the last completion is older than yesterday,
// which breaks the current streak.
func (s StreakData) NeedsReset(now time.Time) bool {
	if s.LastCompletedDate == nil {
		return false
	}
	yesterday := Midnight(now).AddDate(0, 0, -1)
	return s.LastCompletedDate.Before(yesterday)
}

// UnshownMilestone returns the lowest milestone reached by CurrentStreak
// that has not been shown yet, or 0.
func (s StreakData) UnshownMilestone() int {
	for _, m := range Milestones {
		if s.CurrentStreak >= m && s.LastMilestoneShown < m {
			return m
		}
	}
	return 0
}
