package domaintest

import (
	"time"

	"github.com/openplaylab/courtflow/internal/domain"
)

type courtBuilder struct {
	court *domain.Court
}

func (cb *courtBuilder) WithPosition(position int) *courtBuilder {
	cb.court.Position = position
	return cb
}

func (cb *courtBuilder) InUseBy(teamID string, timerStart time.Time) *courtBuilder {
	cb.court.Status = domain.CourtInUse
	cb.court.TeamID = &teamID
	cb.court.TimerStart = &timerStart
	return cb
}

func (cb *courtBuilder) Paused(pausedTime time.Duration) *courtBuilder {
	cb.court.IsPaused = true
	cb.court.PausedTime = &pausedTime
	return cb
}

func (cb *courtBuilder) Build() domain.Court {
	return cb.court.Clone()
}

func NewCourtBuilder(id, name string) *courtBuilder {
	court := &domain.Court{
		ID:     id,
		Name:   name,
		Status: domain.CourtAvailable,
	}
	return &courtBuilder{
		court: court,
	}
}
