package scheduler

import (
	"slices"

	"github.com/openplaylab/courtflow/internal/domain"
)

// DeleteTeam disbands a queued team and returns its members to the waiting
// pool. Teams already on court must be ended instead.
func (s *Session) DeleteTeam(teamID string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.state.Teams {
		if s.state.Teams[i].ID == teamID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Outcome{}, domain.ErrTeamNotFound
	}
	if s.state.Teams[idx].State != domain.TeamStateQueued {
		return Outcome{}, domain.ErrTeamNotQueued
	}

	now := s.nowFunc()
	memberIDs := slices.Clone(s.state.Teams[idx].PlayerIDs)
	s.state.Teams = slices.Delete(s.state.Teams, idx, idx+1)

	delta := domain.Delta{RemovedTeamIDs: []string{teamID}}
	for _, id := range memberIDs {
		player := s.playerByID(id)
		if player == nil {
			continue
		}
		player.State = domain.PlayerStateWaiting
		delta.Players = append(delta.Players, player.Clone())
	}

	entry := s.record(domain.AuditTeamDeleted, domain.TeamDeletedPayload{
		TeamID:    teamID,
		PlayerIDs: memberIDs,
	}, now)
	return Outcome{Delta: delta, Audit: entry}, nil
}

// SwapPlayers exchanges two players between a queued team slot and the pool,
// or between slots of two different queued teams. The exchange is a single
// pairwise edit, so a player can never appear in two active rosters, not even
// transiently.
func (s *Session) SwapPlayers(playerAID, playerBID string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if playerAID == playerBID {
		return Outcome{}, domain.ErrInvalidSwap
	}
	playerA := s.playerByID(playerAID)
	if playerA == nil {
		return Outcome{}, domain.ErrPlayerNotFound
	}
	playerB := s.playerByID(playerBID)
	if playerB == nil {
		return Outcome{}, domain.ErrPlayerNotFound
	}

	teamA, slotA := s.activeSlot(playerAID)
	teamB, slotB := s.activeSlot(playerBID)

	// In-game rosters are immutable; only queued teams may be edited.
	if teamA != nil && teamA.State != domain.TeamStateQueued {
		return Outcome{}, domain.ErrInvalidSwap
	}
	if teamB != nil && teamB.State != domain.TeamStateQueued {
		return Outcome{}, domain.ErrInvalidSwap
	}

	now := s.nowFunc()
	delta := domain.Delta{}

	switch {
	case teamA != nil && teamB != nil:
		if teamA.ID == teamB.ID {
			return Outcome{}, domain.ErrInvalidSwap
		}
		teamA.PlayerIDs[slotA], teamB.PlayerIDs[slotB] = playerBID, playerAID
		delta.Teams = append(delta.Teams, teamA.Clone(), teamB.Clone())
	case teamA != nil:
		if !playerB.State.PoolState() {
			return Outcome{}, domain.ErrInvalidSwap
		}
		teamA.PlayerIDs[slotA] = playerBID
		playerB.State = domain.PlayerStateQueued
		playerA.State = domain.PlayerStateWaiting
		delta.Teams = append(delta.Teams, teamA.Clone())
		delta.Players = append(delta.Players, playerA.Clone(), playerB.Clone())
	case teamB != nil:
		if !playerA.State.PoolState() {
			return Outcome{}, domain.ErrInvalidSwap
		}
		teamB.PlayerIDs[slotB] = playerAID
		playerA.State = domain.PlayerStateQueued
		playerB.State = domain.PlayerStateWaiting
		delta.Teams = append(delta.Teams, teamB.Clone())
		delta.Players = append(delta.Players, playerA.Clone(), playerB.Clone())
	default:
		return Outcome{}, domain.ErrInvalidSwap
	}

	entry := s.record(domain.AuditPlayersSwapped, domain.PlayersSwappedPayload{
		PlayerAID: playerAID,
		PlayerBID: playerBID,
	}, now)
	return Outcome{Delta: delta, Audit: entry}, nil
}

// activeSlot finds the player's slot in a queued or in-game team, if any.
func (s *Session) activeSlot(playerID string) (*domain.Team, int) {
	for i := range s.state.Teams {
		team := &s.state.Teams[i]
		if !team.State.Active() {
			continue
		}
		for j, id := range team.PlayerIDs {
			if id == playerID {
				return team, j
			}
		}
	}
	return nil, -1
}
