package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func at(n, hour int) time.Time {
	return day(n).Add(time.Duration(hour) * time.Hour)
}

func TestStreak_FirstCompletionStartsAtOne(t *testing.T) {
	next, upd := StreakData{}.Complete(at(0, 15))
	assert.True(t, upd.Counted)
	assert.Equal(t, 1, next.CurrentStreak)
	assert.Equal(t, 1, next.LongestStreak)
	require.NotNil(t, next.LastCompletedDate)
	assert.True(t, next.LastCompletedDate.Equal(day(0)))
}

func TestStreak_Continuity(t *testing.T) {
	d := day(10)
	base := StreakData{CurrentStreak: 4, LongestStreak: 6, LastCompletedDate: &d}

	same, upd := base.Complete(at(10, 22))
	assert.False(t, upd.Counted, "same day is a no-op")
	assert.Equal(t, base, same)

	next, upd := base.Complete(at(11, 1))
	assert.True(t, upd.Counted)
	assert.Equal(t, 5, next.CurrentStreak)
	assert.Equal(t, 6, next.LongestStreak)

	for k := 2; k < 5; k++ {
		reset, _ := base.Complete(at(10+k, 9))
		assert.Equal(t, 1, reset.CurrentStreak, "gap of %d days resets", k)
		assert.Equal(t, 6, reset.LongestStreak)
	}
}

func TestStreak_LongestIsMonotonic(t *testing.T) {
	s := StreakData{}
	prevLongest := 0
	// consecutive run, a gap, another run
	days := []int{0, 1, 2, 3, 7, 8, 9, 10, 11, 12, 30, 31}
	for _, n := range days {
		s, _ = s.Complete(at(n, 12))
		assert.GreaterOrEqual(t, s.LongestStreak, prevLongest)
		assert.GreaterOrEqual(t, s.LongestStreak, s.CurrentStreak)
		prevLongest = s.LongestStreak
	}
	assert.Equal(t, 6, s.LongestStreak)
	assert.Equal(t, 2, s.CurrentStreak)
}

func TestStreak_MilestonesFireOnce(t *testing.T) {
	s := StreakData{}
	fired := map[int]int{}
	for n := 0; n < 40; n++ {
		var upd StreakUpdate
		s, upd = s.Complete(at(n, 18))
		if upd.Milestone > 0 {
			fired[upd.Milestone]++
			switch upd.Milestone {
			case 7:
				assert.Equal(t, 7, s.CurrentStreak)
			case 30:
				assert.Equal(t, 30, s.CurrentStreak)
			}
		}
	}
	assert.Equal(t, map[int]int{7: 1, 30: 1}, fired)
	assert.Equal(t, 30, s.LastMilestoneShown)
}

func TestStreak_MilestoneNotRepeatedAfterReset(t *testing.T) {
	d := day(0)
	s := StreakData{CurrentStreak: 8, LongestStreak: 8, LastCompletedDate: &d, LastMilestoneShown: 7}
	for n := 5; n < 14; n++ {
		var upd StreakUpdate
		s, upd = s.Complete(at(n, 10))
		assert.Zero(t, upd.Milestone, "day %d", n)
	}
}

func TestStreak_NeedsReset(t *testing.T) {
	assert.False(t, StreakData{}.NeedsReset(at(5, 10)))

	d := day(4)
	assert.False(t, StreakData{LastCompletedDate: &d}.NeedsReset(at(5, 10)), "yesterday keeps the streak")
	d = day(5)
	assert.False(t, StreakData{LastCompletedDate: &d}.NeedsReset(at(5, 10)))
	d = day(3)
	assert.True(t, StreakData{LastCompletedDate: &d}.NeedsReset(at(5, 10)))
}

func TestMidnight_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	m := Midnight(time.Date(2026, 5, 3, 23, 59, 0, 0, loc))
	assert.Equal(t, time.Date(2026, 5, 3, 0, 0, 0, 0, loc), m)
}
