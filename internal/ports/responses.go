package ports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openplaylab/courtflow/internal/domain"
	"github.com/openplaylab/courtflow/internal/reporting"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Cause   string `json:"cause"`
}

type okResponse struct {
	Success bool `json:"success"`
}

type playerData struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	State           string         `json:"state"`
	GameCount       int            `json:"gameCount"`
	LastGameEndAt   *time.Time     `json:"lastGameEndAt,omitempty"`
	TeammateHistory map[string]int `json:"teammateHistory"`
	Gender          string         `json:"gender,omitempty"`
	Rank            string         `json:"rank,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}

type teamData struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	PlayerIDs []string   `json:"playerIds"`
	State     string     `json:"state"`
	CourtID   *string    `json:"courtId,omitempty"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
}

type courtData struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Position int     `json:"position"`
	Status   string  `json:"status"`
	TeamID   *string `json:"teamId,omitempty"`
	IsPaused bool    `json:"isPaused"`
	// Cumulative play time at the moment the response was built.
	ElapsedMS int64 `json:"elapsedMs"`
}

type sessionSettingsData struct {
	TeamSize            int `json:"teamSize"`
	GameDurationMinutes int `json:"gameDurationMinutes"`
}

type sessionData struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	CreatedAt time.Time           `json:"createdAt"`
	Settings  sessionSettingsData `json:"settings"`
	Players   []playerData        `json:"players"`
	Teams     []teamData          `json:"teams"`
	Courts    []courtData         `json:"courts"`
}

type sessionInfoData struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	CreatedAt   time.Time           `json:"createdAt"`
	Settings    sessionSettingsData `json:"settings"`
	PlayerCount int                 `json:"playerCount"`
	CourtCount  int                 `json:"courtCount"`
}

type auditEntryData struct {
	ID        string              `json:"id"`
	Type      domain.AuditType    `json:"type"`
	Payload   domain.AuditPayload `json:"payload"`
	Timestamp time.Time           `json:"timestamp"`
}

type sessionResponse struct {
	Success bool        `json:"success"`
	Session sessionData `json:"session"`
}

type sessionListResponse struct {
	Success  bool              `json:"success"`
	Sessions []sessionInfoData `json:"sessions"`
}

type playerResponse struct {
	Success bool       `json:"success"`
	Player  playerData `json:"player"`
}

// updatedPlayerResponse carries a null player when the update matched no
// registered player and was recorded as a no-op.
type updatedPlayerResponse struct {
	Success bool        `json:"success"`
	Player  *playerData `json:"player"`
}

type teamsResponse struct {
	Success bool       `json:"success"`
	Teams   []teamData `json:"teams"`
}

type placementResponse struct {
	Success bool      `json:"success"`
	Team    teamData  `json:"team"`
	Court   courtData `json:"court"`
}

type courtResponse struct {
	Success bool      `json:"success"`
	Court   courtData `json:"court"`
}

type auditLogResponse struct {
	Success bool             `json:"success"`
	Entries []auditEntryData `json:"entries"`
}

func toPlayerData(player domain.Player) playerData {
	history := player.TeammateHistory
	if history == nil {
		history = map[string]int{}
	}
	return playerData{
		ID:              player.ID,
		Name:            player.Name,
		State:           string(player.State),
		GameCount:       player.GameCount,
		LastGameEndAt:   player.LastGameEndAt,
		TeammateHistory: history,
		Gender:          player.Gender,
		Rank:            player.Rank,
		CreatedAt:       player.CreatedAt,
	}
}

func toTeamData(team domain.Team) teamData {
	playerIDs := team.PlayerIDs
	if playerIDs == nil {
		playerIDs = []string{}
	}
	return teamData{
		ID:        team.ID,
		Name:      team.Name,
		PlayerIDs: playerIDs,
		State:     string(team.State),
		CourtID:   team.CourtID,
		StartedAt: team.StartedAt,
		EndedAt:   team.EndedAt,
	}
}

func toCourtData(court domain.Court, now time.Time) courtData {
	return courtData{
		ID:        court.ID,
		Name:      court.Name,
		Position:  court.Position,
		Status:    string(court.Status),
		TeamID:    court.TeamID,
		IsPaused:  court.IsPaused,
		ElapsedMS: court.Elapsed(now).Milliseconds(),
	}
}

func toSessionSettingsData(settings domain.Settings) sessionSettingsData {
	return sessionSettingsData{
		TeamSize:            settings.TeamSize,
		GameDurationMinutes: int(settings.GameDuration / time.Minute),
	}
}

func toSessionData(state domain.SessionState, now time.Time) sessionData {
	data := sessionData{
		ID:        state.ID,
		Name:      state.Name,
		CreatedAt: state.CreatedAt,
		Settings:  toSessionSettingsData(state.Settings),
		Players:   make([]playerData, 0, len(state.Players)),
		Teams:     make([]teamData, 0, len(state.Teams)),
		Courts:    make([]courtData, 0, len(state.Courts)),
	}
	for _, player := range state.Players {
		data.Players = append(data.Players, toPlayerData(player))
	}
	for _, team := range state.Teams {
		data.Teams = append(data.Teams, toTeamData(team))
	}
	for _, court := range state.Courts {
		data.Courts = append(data.Courts, toCourtData(court, now))
	}
	return data
}

func toSessionInfoData(info domain.SessionInfo) sessionInfoData {
	return sessionInfoData{
		ID:          info.ID,
		Name:        info.Name,
		CreatedAt:   info.CreatedAt,
		Settings:    toSessionSettingsData(info.Settings),
		PlayerCount: info.PlayerCount,
		CourtCount:  info.CourtCount,
	}
}

func toAuditEntryData(entry domain.AuditEntry) auditEntryData {
	return auditEntryData{
		ID:        entry.ID,
		Type:      entry.Type,
		Payload:   entry.Payload,
		Timestamp: entry.Timestamp,
	}
}

func writeJSONResponse(ctx context.Context, w http.ResponseWriter, statusCode int, response any) {
	marshalled, err := json.Marshal(response)
	if err != nil {
		reporting.Report(ctx, fmt.Errorf("failed to marshal response: %w", err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"cause":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(marshalled)
}

func writeErrorResponse(ctx context.Context, w http.ResponseWriter, statusCode int, cause string) {
	writeJSONResponse(ctx, w, statusCode, errorResponse{Success: false, Cause: cause})
}

// errorStatusCodes maps the scheduling sentinels onto response codes: unknown
// ids are 404s, malformed input is a 400 and failed command preconditions are
// 409s. Order matters only in that the first match wins.
var errorStatusCodes = []struct {
	sentinel   error
	statusCode int
}{
	{domain.ErrSessionNotFound, http.StatusNotFound},
	{domain.ErrPlayerNotFound, http.StatusNotFound},
	{domain.ErrTeamNotFound, http.StatusNotFound},
	{domain.ErrCourtNotFound, http.StatusNotFound},
	{domain.ErrEmptySessionName, http.StatusBadRequest},
	{domain.ErrInvalidSettings, http.StatusBadRequest},
	{domain.ErrEmptyPlayerName, http.StatusBadRequest},
	{domain.ErrInvalidPlayerState, http.StatusBadRequest},
	{domain.ErrNotEnoughPlayers, http.StatusConflict},
	{domain.ErrTeamNotQueued, http.StatusConflict},
	{domain.ErrTeamIncomplete, http.StatusConflict},
	{domain.ErrNoCourtAvailable, http.StatusConflict},
	{domain.ErrCourtNotInUse, http.StatusConflict},
	{domain.ErrInvalidSwap, http.StatusConflict},
}

// writeCommandError translates a failed usecase into the error envelope. The
// sentinel text doubles as the cause; anything unmapped is a 500 with the
// detail kept out of the response body.
func writeCommandError(ctx context.Context, w http.ResponseWriter, err error) {
	for _, mapping := range errorStatusCodes {
		if errors.Is(err, mapping.sentinel) {
			writeErrorResponse(ctx, w, mapping.statusCode, mapping.sentinel.Error())
			return
		}
	}

	// NOTE: app and adapter implementations handle their own error reporting
	writeErrorResponse(ctx, w, http.StatusInternalServerError, "internal server error")
}
