package scheduler

import (
	"github.com/openplaylab/courtflow/internal/domain"
)

// Reset deletes every team, frees every court and returns queued and playing
// players to the waiting pool. Game counts, teammate history and the resting
// and priority states are preserved; team numbering starts over.
func (s *Session) Reset() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()

	delta := domain.Delta{}
	teamsCleared := len(s.state.Teams)
	for i := range s.state.Teams {
		delta.RemovedTeamIDs = append(delta.RemovedTeamIDs, s.state.Teams[i].ID)
	}
	s.state.Teams = nil

	for i := range s.state.Courts {
		court := &s.state.Courts[i]
		court.Status = domain.CourtAvailable
		court.TeamID = nil
		court.TimerStart = nil
		court.IsPaused = false
		court.PausedTime = nil
		delta.Courts = append(delta.Courts, court.Clone())
	}

	for i := range s.state.Players {
		player := &s.state.Players[i]
		if player.State == domain.PlayerStateQueued || player.State == domain.PlayerStatePlaying {
			player.State = domain.PlayerStateWaiting
			delta.Players = append(delta.Players, player.Clone())
		}
	}

	s.state.TeamCounter = 0
	counter := 0
	delta.TeamCounter = &counter

	entry := s.record(domain.AuditSessionReset, domain.SessionResetPayload{
		TeamsCleared:    teamsCleared,
		PlayersRetained: len(s.state.Players),
	}, now)
	return Outcome{Delta: delta, Audit: entry}
}

// ResetStats zeroes every player's game count, last game timestamp and
// teammate history. Player states are untouched.
func (s *Session) ResetStats() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()

	delta := domain.Delta{}
	for i := range s.state.Players {
		player := &s.state.Players[i]
		player.GameCount = 0
		player.LastGameEndAt = nil
		player.TeammateHistory = map[string]int{}
		delta.Players = append(delta.Players, player.Clone())
	}

	entry := s.record(domain.AuditStatsReset, domain.StatsResetPayload{
		PlayersAffected: len(s.state.Players),
	}, now)
	return Outcome{Delta: delta, Audit: entry}
}
