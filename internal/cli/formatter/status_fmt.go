package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/lockedin/internal/domain"
)

// StatusView is everything `lockedin status` reads from the store.
type StatusView struct {
	Open       *domain.SessionStatistic
	Streak     *domain.StreakData
	Setup      *domain.SetupState
	Token      *domain.RegisteredToken
	Schedule   *domain.Schedule
	BlockedApp int
}

func FormatStatus(v StatusView, now time.Time) string {
	var b strings.Builder
	b.WriteString(SessionIndicator(v.Open != nil))
	b.WriteString("\n\n")

	pairs := [][2]string{}
	if v.Open != nil {
		pairs = append(pairs,
			[2]string{"Session", fmt.Sprintf("%s (started %s)", TruncID(v.Open.ID), HumanTimestamp(v.Open.StartTime, now))},
			[2]string{"Blocked so far", strconv.Itoa(v.Open.BlockedAttempts)},
		)
	}
	if v.Schedule != nil {
		pairs = append(pairs, [2]string{"Next tap starts", fmt.Sprintf("%s, %s",
			v.Schedule.Name, FormatMinutes(v.Schedule.DurationMinutes()))})
	} else {
		pairs = append(pairs, [2]string{"Next tap starts", StyleYellow.Render("no schedule configured")})
	}
	pairs = append(pairs, [2]string{"Blocked apps", strconv.Itoa(v.BlockedApp)})
	pairs = append(pairs, [2]string{"Token", FormatToken(v.Token)})
	if v.Streak != nil {
		pairs = append(pairs, [2]string{"Streak", FormatStreakLine(v.Streak)})
	}
	if v.Setup != nil && !v.Setup.Completed {
		pairs = append(pairs, [2]string{"Setup", StyleYellow.Render("incomplete: run 'lockedin setup complete'")})
	}
	b.WriteString(RenderKeyValues(pairs))
	return b.String()
}

// FormatToken renders the registered token or the permissive-mode notice.
func FormatToken(t *domain.RegisteredToken) string {
	if t == nil {
		return StyleYellow.Render("none (any token starts a session)")
	}
	s := StyleBlue.Render(t.TokenID)
	if t.Nickname != "" {
		s += " " + Dim("("+t.Nickname+")")
	}
	return s
}

func FormatStreakLine(s *domain.StreakData) string {
	return fmt.Sprintf("%s current, %d longest", StyleGreen.Render(strconv.Itoa(s.CurrentStreak)+" days"), s.LongestStreak)
}

// FormatStreak renders the streak card with the next milestone.
func FormatStreak(s *domain.StreakData, now time.Time) string {
	pairs := [][2]string{
		{"Current", StyleGreen.Render(fmt.Sprintf("%d days", s.CurrentStreak))},
		{"Longest", fmt.Sprintf("%d days", s.LongestStreak)},
	}
	if s.LastCompletedDate != nil {
		pairs = append(pairs, [2]string{"Last completed", HumanDate(*s.LastCompletedDate, now)})
	}
	for _, m := range domain.Milestones {
		if s.CurrentStreak < m {
			pairs = append(pairs, [2]string{"Next milestone", fmt.Sprintf("%d days (%d to go)", m, m-s.CurrentStreak)})
			break
		}
	}
	return RenderBox("Streak", RenderKeyValues(pairs))
}

// MilestoneMessage is the one-time celebration text.
func MilestoneMessage(days int) string {
	return fmt.Sprintf("%d-day streak! You've stayed locked in for %d days in a row.", days, days)
}
