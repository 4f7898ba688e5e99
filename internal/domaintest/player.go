package domaintest

import (
	"time"

	"github.com/openplaylab/courtflow/internal/domain"
)

type playerBuilder struct {
	player *domain.Player
}

func (pb *playerBuilder) WithState(state domain.PlayerState) *playerBuilder {
	pb.player.State = state
	return pb
}

func (pb *playerBuilder) WithGameCount(gameCount int) *playerBuilder {
	pb.player.GameCount = gameCount
	return pb
}

func (pb *playerBuilder) WithLastGameEndAt(lastGameEndAt time.Time) *playerBuilder {
	pb.player.LastGameEndAt = &lastGameEndAt
	return pb
}

func (pb *playerBuilder) WithTeammateHistory(history map[string]int) *playerBuilder {
	pb.player.TeammateHistory = history
	return pb
}

func (pb *playerBuilder) WithGender(gender string) *playerBuilder {
	pb.player.Gender = gender
	return pb
}

func (pb *playerBuilder) WithRank(rank string) *playerBuilder {
	pb.player.Rank = rank
	return pb
}

func (pb *playerBuilder) Build() domain.Player {
	// Make a copy, so further mutations to the builder don't affect the returned player
	return pb.player.Clone()
}

func NewPlayerBuilder(id, name string) *playerBuilder {
	player := &domain.Player{
		ID:              id,
		Name:            name,
		State:           domain.PlayerStateWaiting,
		TeammateHistory: map[string]int{},
	}
	return &playerBuilder{
		player: player,
	}
}
