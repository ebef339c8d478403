package dispatch

import "fmt"

// TapEvent is the outcome of one token tap. The concrete types below are the
// only implementations.
type TapEvent interface {
	fmt.Stringer
	tapEvent()
}

type TagRegistered struct {
	TokenID string
}

type WrongTag struct {
	Scanned  string
	Expected string
}

type SessionEnded struct {
	Confirmed bool
}

// ActiveSessionPrompt means the active-session dialog was presented; no
// state changed.
type ActiveSessionPrompt struct {
	ScheduleName string
}

type SessionStarted struct {
	ScheduleName string
	SessionID    string
}

type NoScheduleConfigured struct{}

type RegistrationCancelled struct{}

func (TagRegistered) tapEvent()         {}
func (WrongTag) tapEvent()              {}
func (SessionEnded) tapEvent()          {}
func (ActiveSessionPrompt) tapEvent()   {}
func (SessionStarted) tapEvent()        {}
func (NoScheduleConfigured) tapEvent()  {}
func (RegistrationCancelled) tapEvent() {}

func (e TagRegistered) String() string { return "tag registered: " + e.TokenID }
func (e WrongTag) String() string {
	return fmt.Sprintf("wrong tag: scanned %s, expected %s", e.Scanned, e.Expected)
}
func (e SessionEnded) String() string {
	return fmt.Sprintf("session ended (confirmed=%t)", e.Confirmed)
}
func (e ActiveSessionPrompt) String() string {
	return "active session: " + e.ScheduleName
}
func (e SessionStarted) String() string       { return "session started: " + e.ScheduleName }
func (NoScheduleConfigured) String() string  { return "no schedule configured" }
func (RegistrationCancelled) String() string { return "registration cancelled" }
