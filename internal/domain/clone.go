package domain

import (
	"maps"
	"slices"
)

// Clone helpers produce copies that share no pointers with the original, so
// snapshots and persistence deltas stay valid while the live state mutates.

func (p Player) Clone() Player {
	clone := p
	if p.LastGameEndAt != nil {
		t := *p.LastGameEndAt
		clone.LastGameEndAt = &t
	}
	clone.TeammateHistory = maps.Clone(p.TeammateHistory)
	return clone
}

func (t Team) Clone() Team {
	clone := t
	clone.PlayerIDs = slices.Clone(t.PlayerIDs)
	if t.CourtID != nil {
		id := *t.CourtID
		clone.CourtID = &id
	}
	if t.StartedAt != nil {
		ts := *t.StartedAt
		clone.StartedAt = &ts
	}
	if t.EndedAt != nil {
		ts := *t.EndedAt
		clone.EndedAt = &ts
	}
	return clone
}

func (c Court) Clone() Court {
	clone := c
	if c.TeamID != nil {
		id := *c.TeamID
		clone.TeamID = &id
	}
	if c.TimerStart != nil {
		ts := *c.TimerStart
		clone.TimerStart = &ts
	}
	if c.PausedTime != nil {
		d := *c.PausedTime
		clone.PausedTime = &d
	}
	return clone
}

func (s SessionState) Clone() SessionState {
	clone := s
	clone.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		clone.Players[i] = p.Clone()
	}
	clone.Teams = make([]Team, len(s.Teams))
	for i, t := range s.Teams {
		clone.Teams[i] = t.Clone()
	}
	clone.Courts = make([]Court, len(s.Courts))
	for i, c := range s.Courts {
		clone.Courts[i] = c.Clone()
	}
	return clone
}
