package scheduler

import (
	"fmt"
	"slices"

	"github.com/openplaylab/courtflow/internal/domain"
)

// AutoMatch partitions the eligible pool into as many full teams as it can
// and queues them, returning the formed teams in order.
//
// A player is eligible when their state is waiting or priority and no queued
// or in-game team already claims them. The eligible list is ordered by a
// stable sort: priority players first, then ascending game count, then
// ascending last game end where a player who never played sorts earliest.
// Registration order breaks remaining ties. The front of the list is cut into
// teams of exactly teamSize; leftover players keep their state. If not even
// one team fits, nothing changes.
func (s *Session) AutoMatch() ([]domain.Team, Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()

	claimed := map[string]bool{}
	for i := range s.state.Teams {
		team := &s.state.Teams[i]
		if !team.State.Active() {
			continue
		}
		for _, id := range team.PlayerIDs {
			claimed[id] = true
		}
	}

	var eligible []*domain.Player
	for i := range s.state.Players {
		player := &s.state.Players[i]
		poolCandidate := player.State == domain.PlayerStateWaiting || player.State == domain.PlayerStatePriority
		if poolCandidate && !claimed[player.ID] {
			eligible = append(eligible, player)
		}
	}
	slices.SortStableFunc(eligible, compareCandidates)

	teamSize := s.state.Settings.TeamSize
	teamCount := len(eligible) / teamSize
	if teamCount == 0 {
		return nil, Outcome{}, domain.ErrNotEnoughPlayers
	}

	delta := domain.Delta{}
	formed := make([]domain.Team, 0, teamCount)
	for i := range teamCount {
		members := eligible[i*teamSize : (i+1)*teamSize]

		s.state.TeamCounter++
		team := domain.Team{
			ID:    s.newID(),
			Name:  fmt.Sprintf("Team %d", s.state.TeamCounter),
			State: domain.TeamStateQueued,
		}
		for _, member := range members {
			team.PlayerIDs = append(team.PlayerIDs, member.ID)
			member.State = domain.PlayerStateQueued
			delta.Players = append(delta.Players, member.Clone())
		}
		s.state.Teams = append(s.state.Teams, team)
		formed = append(formed, team.Clone())
		delta.Teams = append(delta.Teams, team.Clone())
	}
	counter := s.state.TeamCounter
	delta.TeamCounter = &counter

	payload := domain.AutoMatchPayload{}
	for _, team := range formed {
		payload.Teams = append(payload.Teams, domain.FormedTeam{
			TeamID:    team.ID,
			Name:      team.Name,
			PlayerIDs: slices.Clone(team.PlayerIDs),
		})
	}
	entry := s.record(domain.AuditAutoMatch, payload, now)
	return formed, Outcome{Delta: delta, Audit: entry}, nil
}

// compareCandidates orders eligible players for team formation. Zero means
// equal so the stable sort preserves registration order.
func compareCandidates(a, b *domain.Player) int {
	if a.State != b.State {
		if a.State == domain.PlayerStatePriority {
			return -1
		}
		return 1
	}
	if a.GameCount != b.GameCount {
		return a.GameCount - b.GameCount
	}
	switch {
	case a.LastGameEndAt == nil && b.LastGameEndAt == nil:
		return 0
	case a.LastGameEndAt == nil:
		return -1
	case b.LastGameEndAt == nil:
		return 1
	case a.LastGameEndAt.Before(*b.LastGameEndAt):
		return -1
	case b.LastGameEndAt.Before(*a.LastGameEndAt):
		return 1
	default:
		return 0
	}
}
