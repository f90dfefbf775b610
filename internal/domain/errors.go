package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors carry no infrastructure dependency.

var (
	// Gamification errors
	ErrInvalidStats  = errors.New("stats counters out of range")
	ErrInvalidDelta  = errors.New("activity delta must be positive")
	ErrStatOverflow  = errors.New("activity would push the counter past its limit")
	ErrUnknownMetric = errors.New("unknown stat metric")
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidUserID = errors.New("user id must not be empty")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")

	// Registration errors
	ErrDraftNotFound   = errors.New("registration draft not found")
	ErrStepOutOfOrder  = errors.New("registration step submitted out of order")
	ErrDraftIncomplete = errors.New("registration draft has unfinished steps")
	ErrInvalidStep     = errors.New("registration step failed validation")
	ErrDraftFinished   = errors.New("registration draft already completed")
	ErrUnknownStage    = errors.New("unknown registration stage")
)
