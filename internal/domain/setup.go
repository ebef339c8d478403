package domain

import "time"

type SetupState struct {
	Completed   bool
	CompletedAt *time.Time
}
