package domain

import (
	"time"
)

type CourtStatus string

const (
	CourtAvailable CourtStatus = "available"
	CourtInUse     CourtStatus = "in_use"
)

func (s CourtStatus) Valid() bool {
	return s == CourtAvailable || s == CourtInUse
}

type Court struct {
	ID   string
	Name string

	// Stable ordering for "first available court" selection.
	Position int

	Status CourtStatus

	// Set iff Status == in_use.
	TeamID *string

	// Wall-clock origin of the running timer. While paused this keeps its last
	// value; on resume it is rewritten to now - PausedTime so that
	// now - TimerStart always yields the cumulative elapsed time.
	TimerStart *time.Time

	IsPaused bool

	// Elapsed play time frozen at the moment of pause. Set iff IsPaused.
	PausedTime *time.Duration
}

// Elapsed returns the cumulative play time shown for the court at the given
// instant. Zero for courts that are not in use.
func (c *Court) Elapsed(now time.Time) time.Duration {
	if c.Status != CourtInUse || c.TimerStart == nil {
		return 0
	}
	if c.IsPaused && c.PausedTime != nil {
		return *c.PausedTime
	}
	return now.Sub(*c.TimerStart)
}
