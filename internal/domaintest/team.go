package domaintest

import (
	"time"

	"github.com/openplaylab/courtflow/internal/domain"
)

type teamBuilder struct {
	team *domain.Team
}

func (tb *teamBuilder) WithState(state domain.TeamState) *teamBuilder {
	tb.team.State = state
	return tb
}

func (tb *teamBuilder) WithCourtID(courtID string) *teamBuilder {
	tb.team.CourtID = &courtID
	return tb
}

func (tb *teamBuilder) WithStartedAt(startedAt time.Time) *teamBuilder {
	tb.team.StartedAt = &startedAt
	return tb
}

func (tb *teamBuilder) Build() domain.Team {
	return tb.team.Clone()
}

func NewTeamBuilder(id, name string, playerIDs ...string) *teamBuilder {
	team := &domain.Team{
		ID:        id,
		Name:      name,
		PlayerIDs: playerIDs,
		State:     domain.TeamStateQueued,
	}
	return &teamBuilder{
		team: team,
	}
}
