package domain

import (
	"time"
)

type TeamState string

const (
	TeamStateQueued    TeamState = "queued"
	TeamStateInGame    TeamState = "in_game"
	TeamStateCompleted TeamState = "completed"
)

// Active reports whether the team currently claims its members: a player id
// may appear in at most one active team at a time.
func (s TeamState) Active() bool {
	return s == TeamStateQueued || s == TeamStateInGame
}

func (s TeamState) Valid() bool {
	switch s {
	case TeamStateQueued, TeamStateInGame, TeamStateCompleted:
		return true
	}
	return false
}

type Team struct {
	ID   string
	Name string

	// Ordered. Holds exactly the configured team size when formed; deleting a
	// player may leave it shorter, which renders the team non-startable.
	PlayerIDs []string

	State TeamState

	// Set once the team goes in-game, retained after completion.
	CourtID   *string
	StartedAt *time.Time
	EndedAt   *time.Time
}
