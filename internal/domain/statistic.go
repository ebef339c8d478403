package domain

import "time"

// DefaultTimeSavedPerAttempt is the estimate credited for each interception.
const DefaultTimeSavedPerAttempt = 5 * time.Minute

// SessionStatistic is one ledger row. A nil EndTime means the row is open.
type SessionStatistic struct {
	ID                    string
	StartTime             time.Time
	EndTime               *time.Time
	BlockedAttempts       int
	TimeSavedSeconds      int64
	CompletedSuccessfully bool
}

// IsOpen reports whether the session has not been closed yet.
func (s *SessionStatistic) IsOpen() bool {
	return s.EndTime == nil
}

// Duration returns the closed length of the session, or the elapsed time
// until now for an open row.
func (s *SessionStatistic) Duration(now time.Time) time.Duration {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}
	if end.Before(s.StartTime) {
		return 0
	}
	return end.Sub(s.StartTime)
}
