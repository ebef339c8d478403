package domain

import "errors"

var (
	// ErrNoScheduleConfigured indicates a start was requested but no schedule is enabled.
	ErrNoScheduleConfigured = errors.New("no schedule configured")

	// ErrScheduleNotFound indicates an explicit schedule id no longer exists.
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrWrongToken indicates the scanned token does not match the registered one.
	ErrWrongToken = errors.New("wrong token")

	// ErrSessionActive indicates a start was requested while a session is running.
	ErrSessionActive = errors.New("session already active")

	// ErrSessionAlreadyOpen indicates the ledger already holds an open row.
	ErrSessionAlreadyOpen = errors.New("ledger already has an open session")

	// ErrInvalidExtension indicates a non-positive extension was requested.
	ErrInvalidExtension = errors.New("extension must be a positive number of minutes")

	ErrInvalidSchedule = errors.New("invalid schedule")
	ErrInvalidToken    = errors.New("invalid token id")
	ErrInvalidPackage  = errors.New("invalid package name")

	// ErrSetupIncomplete indicates enforcement was requested before setup finished.
	ErrSetupIncomplete = errors.New("setup not completed")
)
