package domaintest

import (
	"fmt"
	"time"

	"github.com/openplaylab/courtflow/internal/domain"
)

type stateBuilder struct {
	state *domain.SessionState
}

func (sb *stateBuilder) WithTeamSize(teamSize int) *stateBuilder {
	sb.state.Settings.TeamSize = teamSize
	return sb
}

func (sb *stateBuilder) WithGameDuration(gameDuration time.Duration) *stateBuilder {
	sb.state.Settings.GameDuration = gameDuration
	return sb
}

// WithCourts adds count available courts named "Court 1".."Court count" with
// ids "court-1".."court-count".
func (sb *stateBuilder) WithCourts(count int) *stateBuilder {
	for range count {
		next := len(sb.state.Courts) + 1
		sb.state.Courts = append(sb.state.Courts, domain.Court{
			ID:       fmt.Sprintf("court-%d", next),
			Name:     fmt.Sprintf("Court %d", next),
			Position: next - 1,
			Status:   domain.CourtAvailable,
		})
	}
	return sb
}

// WithCourtList appends explicit court values, for callers that need to
// control ids and positions.
func (sb *stateBuilder) WithCourtList(courts ...domain.Court) *stateBuilder {
	sb.state.Courts = append(sb.state.Courts, courts...)
	return sb
}

func (sb *stateBuilder) WithPlayers(players ...domain.Player) *stateBuilder {
	sb.state.Players = append(sb.state.Players, players...)
	return sb
}

func (sb *stateBuilder) WithTeams(teams ...domain.Team) *stateBuilder {
	sb.state.Teams = append(sb.state.Teams, teams...)
	return sb
}

func (sb *stateBuilder) WithTeamCounter(counter int) *stateBuilder {
	sb.state.TeamCounter = counter
	return sb
}

func (sb *stateBuilder) Build() domain.SessionState {
	return sb.state.Clone()
}

func NewStateBuilder(id, name string) *stateBuilder {
	state := &domain.SessionState{
		ID:   id,
		Name: name,
		Settings: domain.Settings{
			TeamSize:     4,
			GameDuration: 15 * time.Minute,
		},
	}
	return &stateBuilder{
		state: state,
	}
}
