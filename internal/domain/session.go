package domain

import (
	"time"
)

// Settings is the fixed per-session configuration. It is read-only for the
// scheduling core; reconfiguration is not a session command.
type Settings struct {
	TeamSize     int
	GameDuration time.Duration
}

// SessionState is the full persisted state of one session: what the
// persistence collaborator loads and what the scheduling engine is hydrated
// from.
type SessionState struct {
	ID        string
	Name      string
	CreatedAt time.Time

	Settings Settings

	Players []Player
	Teams   []Team
	Courts  []Court

	// Running counter backing "Team N" display names. Survives reloads so
	// numbering does not restart mid-session.
	TeamCounter int
}

// SessionInfo is the listing projection of a session.
type SessionInfo struct {
	ID        string
	Name      string
	CreatedAt time.Time

	Settings Settings

	PlayerCount int
	CourtCount  int
}

// Delta describes the entities touched by one applied command. The
// persistence collaborator applies it as a single unit; ids absent from both
// the changed and removed sets are untouched.
type Delta struct {
	Players          []Player
	RemovedPlayerIDs []string

	Teams          []Team
	RemovedTeamIDs []string

	Courts []Court

	TeamCounter *int
}

// Empty reports whether the delta carries no changes.
func (d *Delta) Empty() bool {
	return len(d.Players) == 0 && len(d.RemovedPlayerIDs) == 0 &&
		len(d.Teams) == 0 && len(d.RemovedTeamIDs) == 0 &&
		len(d.Courts) == 0 && d.TeamCounter == nil
}
