package domain

import (
	"time"
)

// AuditType tags the operation an audit entry records.
type AuditType string

const (
	AuditSessionCreated    AuditType = "session_created"
	AuditPlayerAdded       AuditType = "player_added"
	AuditPlayerUpdated     AuditType = "player_updated"
	AuditPlayerDeleted     AuditType = "player_deleted"
	AuditGameCountAdjusted AuditType = "game_count_adjusted"
	AuditAutoMatch         AuditType = "auto_match"
	AuditGameStarted       AuditType = "game_started"
	AuditGameEnded         AuditType = "game_ended"
	AuditTimerToggled      AuditType = "timer_toggled"
	AuditPlayersSwapped    AuditType = "players_swapped"
	AuditTeamDeleted       AuditType = "team_deleted"
	AuditSessionReset      AuditType = "session_reset"
	AuditStatsReset        AuditType = "stats_reset"
)

// AuditEntry is an immutable record of one successful mutating command.
// Payload is a tagged union keyed by Type; the persistence boundary validates
// the pairing when encoding and decoding.
type AuditEntry struct {
	ID        string
	Type      AuditType
	Payload   AuditPayload
	Timestamp time.Time
}

type AuditPayload interface {
	isAuditPayload()
}

type SessionCreatedPayload struct {
	SessionName string `json:"sessionName"`
	TeamSize    int    `json:"teamSize"`
	CourtCount  int    `json:"courtCount"`
}

type PlayerAddedPayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type PlayerUpdatedPayload struct {
	PlayerID string `json:"playerId"`
	// False when the id did not match any registered player and the update was
	// recorded as a no-op.
	Found bool `json:"found"`
}

type PlayerDeletedPayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	// Teams whose member list the player was removed from.
	TeamIDs []string `json:"teamIds,omitempty"`
}

type GameCountAdjustedPayload struct {
	PlayerID string `json:"playerId"`
	Delta    int    `json:"delta"`
	NewCount int    `json:"newCount"`
}

type FormedTeam struct {
	TeamID    string   `json:"teamId"`
	Name      string   `json:"name"`
	PlayerIDs []string `json:"playerIds"`
}

type AutoMatchPayload struct {
	Teams []FormedTeam `json:"teams"`
}

type GameStartedPayload struct {
	TeamID  string `json:"teamId"`
	CourtID string `json:"courtId"`
}

type GameEndedPayload struct {
	TeamID    string `json:"teamId"`
	CourtID   string `json:"courtId"`
	ElapsedMS int64  `json:"elapsedMs"`
}

type TimerToggledPayload struct {
	CourtID   string `json:"courtId"`
	Paused    bool   `json:"paused"`
	ElapsedMS int64  `json:"elapsedMs"`
}

type PlayersSwappedPayload struct {
	PlayerAID string `json:"playerAId"`
	PlayerBID string `json:"playerBId"`
}

type TeamDeletedPayload struct {
	TeamID    string   `json:"teamId"`
	PlayerIDs []string `json:"playerIds"`
}

type SessionResetPayload struct {
	TeamsCleared    int `json:"teamsCleared"`
	PlayersRetained int `json:"playersRetained"`
}

type StatsResetPayload struct {
	PlayersAffected int `json:"playersAffected"`
}

func (SessionCreatedPayload) isAuditPayload()    {}
func (PlayerAddedPayload) isAuditPayload()       {}
func (PlayerUpdatedPayload) isAuditPayload()     {}
func (PlayerDeletedPayload) isAuditPayload()     {}
func (GameCountAdjustedPayload) isAuditPayload() {}
func (AutoMatchPayload) isAuditPayload()         {}
func (GameStartedPayload) isAuditPayload()       {}
func (GameEndedPayload) isAuditPayload()         {}
func (TimerToggledPayload) isAuditPayload()      {}
func (PlayersSwappedPayload) isAuditPayload()    {}
func (TeamDeletedPayload) isAuditPayload()       {}
func (SessionResetPayload) isAuditPayload()      {}
func (StatsResetPayload) isAuditPayload()        {}
