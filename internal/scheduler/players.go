package scheduler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/openplaylab/courtflow/internal/domain"
)

// AddPlayer registers a player in the waiting pool. Display names are kept
// unique by suffixing repeats with their running count, so a second "Alex"
// becomes "Alex (2)".
func (s *Session) AddPlayer(name, gender, rank string) (domain.Player, Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Player{}, Outcome{}, domain.ErrEmptyPlayerName
	}

	now := s.nowFunc()
	player := domain.Player{
		ID:              s.newID(),
		Name:            s.uniqueDisplayName(name),
		State:           domain.PlayerStateWaiting,
		TeammateHistory: map[string]int{},
		Gender:          gender,
		Rank:            rank,
		CreatedAt:       now,
	}
	s.state.Players = append(s.state.Players, player)

	entry := s.record(domain.AuditPlayerAdded, domain.PlayerAddedPayload{
		PlayerID: player.ID,
		Name:     player.Name,
	}, now)
	return player.Clone(), Outcome{
		Delta: domain.Delta{Players: []domain.Player{player.Clone()}},
		Audit: entry,
	}, nil
}

// uniqueDisplayName counts registered players whose name is the trimmed input
// or a previously suffixed variant of it.
func (s *Session) uniqueDisplayName(name string) string {
	taken := 0
	for i := range s.state.Players {
		existing := s.state.Players[i].Name
		if existing == name || strings.HasPrefix(existing, name+" (") {
			taken++
		}
	}
	if taken == 0 {
		return name
	}
	return fmt.Sprintf("%s (%d)", name, taken+1)
}

// UpdatePlayer merges the set fields into the matching record. A state change
// may only move between the pool states waiting, priority and resting; queued
// and playing are owned by the game lifecycle. An unknown id is recorded as an
// audited no-op and the returned player is nil.
func (s *Session) UpdatePlayer(id string, update domain.PlayerUpdate) (*domain.Player, Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var name string
	if update.Name != nil {
		name = strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, Outcome{}, domain.ErrEmptyPlayerName
		}
	}
	if update.State != nil && !update.State.PoolState() {
		return nil, Outcome{}, domain.ErrInvalidPlayerState
	}

	now := s.nowFunc()
	player := s.playerByID(id)
	if player == nil {
		entry := s.record(domain.AuditPlayerUpdated, domain.PlayerUpdatedPayload{
			PlayerID: id,
			Found:    false,
		}, now)
		return nil, Outcome{Audit: entry}, nil
	}
	if update.State != nil && !player.State.PoolState() {
		return nil, Outcome{}, domain.ErrInvalidPlayerState
	}

	if update.Name != nil {
		player.Name = name
	}
	if update.State != nil {
		player.State = *update.State
	}
	if update.Gender != nil {
		player.Gender = *update.Gender
	}
	if update.Rank != nil {
		player.Rank = *update.Rank
	}

	entry := s.record(domain.AuditPlayerUpdated, domain.PlayerUpdatedPayload{
		PlayerID: id,
		Found:    true,
	}, now)
	updated := player.Clone()
	return &updated, Outcome{
		Delta: domain.Delta{Players: []domain.Player{player.Clone()}},
		Audit: entry,
	}, nil
}

// DeletePlayer removes the player from the registry and from every team's
// member list. Team records are kept even when this leaves them short of a
// full roster; such teams show up normally but cannot start a game.
func (s *Session) DeletePlayer(id string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.state.Players {
		if s.state.Players[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Outcome{}, domain.ErrPlayerNotFound
	}

	now := s.nowFunc()
	name := s.state.Players[idx].Name
	s.state.Players = slices.Delete(s.state.Players, idx, idx+1)

	delta := domain.Delta{RemovedPlayerIDs: []string{id}}
	var teamIDs []string
	for i := range s.state.Teams {
		team := &s.state.Teams[i]
		before := len(team.PlayerIDs)
		team.PlayerIDs = slices.DeleteFunc(team.PlayerIDs, func(memberID string) bool {
			return memberID == id
		})
		if len(team.PlayerIDs) != before {
			teamIDs = append(teamIDs, team.ID)
			delta.Teams = append(delta.Teams, team.Clone())
		}
	}

	entry := s.record(domain.AuditPlayerDeleted, domain.PlayerDeletedPayload{
		PlayerID: id,
		Name:     name,
		TeamIDs:  teamIDs,
	}, now)
	return Outcome{Delta: delta, Audit: entry}, nil
}

// AdjustGameCount applies a manual correction to a player's game count,
// clamping the result at zero.
func (s *Session) AdjustGameCount(id string, delta int) (domain.Player, Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player := s.playerByID(id)
	if player == nil {
		return domain.Player{}, Outcome{}, domain.ErrPlayerNotFound
	}

	now := s.nowFunc()
	player.GameCount = max(0, player.GameCount+delta)

	entry := s.record(domain.AuditGameCountAdjusted, domain.GameCountAdjustedPayload{
		PlayerID: id,
		Delta:    delta,
		NewCount: player.GameCount,
	}, now)
	return player.Clone(), Outcome{
		Delta: domain.Delta{Players: []domain.Player{player.Clone()}},
		Audit: entry,
	}, nil
}
