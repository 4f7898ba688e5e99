package domain

import (
	"time"
)

type PlayerState string

const (
	PlayerStateWaiting  PlayerState = "waiting"
	PlayerStatePriority PlayerState = "priority"
	PlayerStateResting  PlayerState = "resting"
	PlayerStateQueued   PlayerState = "queued"
	PlayerStatePlaying  PlayerState = "playing"
)

// PoolState reports whether the state is one a player can hold while not
// claimed by a queued or in-game team.
func (s PlayerState) PoolState() bool {
	return s == PlayerStateWaiting || s == PlayerStatePriority || s == PlayerStateResting
}

func (s PlayerState) Valid() bool {
	switch s {
	case PlayerStateWaiting, PlayerStatePriority, PlayerStateResting, PlayerStateQueued, PlayerStatePlaying:
		return true
	}
	return false
}

type Player struct {
	ID   string
	Name string

	State     PlayerState
	GameCount int

	// Set when the player's most recent game ended. Nil for players who have
	// never finished a game; sorts as earliest in the fairness ordering.
	LastGameEndAt *time.Time

	// Times paired with each other player, keyed by player id. Display only;
	// never read by auto-matching.
	TeammateHistory map[string]int

	Gender string
	Rank   string

	CreatedAt time.Time
}

// PlayerUpdate carries the fields of a partial player update. Nil fields are
// left untouched.
type PlayerUpdate struct {
	Name   *string
	State  *PlayerState
	Gender *string
	Rank   *string
}
