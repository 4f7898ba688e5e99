package scheduler

import (
	"time"

	"github.com/openplaylab/courtflow/internal/domain"
)

// StartGame binds a queued, full team to the first available court in
// position order. Members become playing and every pairing in the roster is
// counted into the players' teammate history.
func (s *Session) StartGame(teamID string) (Placement, Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	team := s.teamByID(teamID)
	if team == nil {
		return Placement{}, Outcome{}, domain.ErrTeamNotFound
	}
	if team.State != domain.TeamStateQueued {
		return Placement{}, Outcome{}, domain.ErrTeamNotQueued
	}
	if len(team.PlayerIDs) != s.state.Settings.TeamSize {
		return Placement{}, Outcome{}, domain.ErrTeamIncomplete
	}

	var court *domain.Court
	for i := range s.state.Courts {
		if s.state.Courts[i].Status == domain.CourtAvailable {
			court = &s.state.Courts[i]
			break
		}
	}
	if court == nil {
		return Placement{}, Outcome{}, domain.ErrNoCourtAvailable
	}

	now := s.nowFunc()

	team.State = domain.TeamStateInGame
	courtID := court.ID
	team.CourtID = &courtID
	startedAt := now
	team.StartedAt = &startedAt

	boundTeamID := team.ID
	court.Status = domain.CourtInUse
	court.TeamID = &boundTeamID
	timerStart := now
	court.TimerStart = &timerStart
	court.IsPaused = false
	court.PausedTime = nil

	delta := domain.Delta{
		Teams:  []domain.Team{team.Clone()},
		Courts: []domain.Court{court.Clone()},
	}

	members := make([]*domain.Player, 0, len(team.PlayerIDs))
	for _, id := range team.PlayerIDs {
		if player := s.playerByID(id); player != nil {
			members = append(members, player)
		}
	}
	for _, member := range members {
		member.State = domain.PlayerStatePlaying
		if member.TeammateHistory == nil {
			member.TeammateHistory = map[string]int{}
		}
	}
	for i, member := range members {
		for _, other := range members[i+1:] {
			member.TeammateHistory[other.ID]++
			other.TeammateHistory[member.ID]++
		}
	}
	for _, member := range members {
		delta.Players = append(delta.Players, member.Clone())
	}

	entry := s.record(domain.AuditGameStarted, domain.GameStartedPayload{
		TeamID:  team.ID,
		CourtID: court.ID,
	}, now)
	return Placement{Team: team.Clone(), Court: court.Clone()}, Outcome{Delta: delta, Audit: entry}, nil
}

// EndGame completes the game on the court: the team is retired, the court is
// freed and every member rejoins the pool as waiting with their game count
// incremented. This is the only transition that increments game counts.
func (s *Session) EndGame(courtID string) (Placement, Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	court := s.courtByID(courtID)
	if court == nil {
		return Placement{}, Outcome{}, domain.ErrCourtNotFound
	}
	if court.Status != domain.CourtInUse || court.TeamID == nil {
		return Placement{}, Outcome{}, domain.ErrCourtNotInUse
	}

	now := s.nowFunc()
	elapsed := court.Elapsed(now)
	team := s.teamByID(*court.TeamID)

	court.Status = domain.CourtAvailable
	court.TeamID = nil
	court.TimerStart = nil
	court.IsPaused = false
	court.PausedTime = nil

	delta := domain.Delta{Courts: []domain.Court{court.Clone()}}

	var teamID string
	if team != nil {
		teamID = team.ID
		team.State = domain.TeamStateCompleted
		endedAt := now
		team.EndedAt = &endedAt
		delta.Teams = append(delta.Teams, team.Clone())

		for _, id := range team.PlayerIDs {
			player := s.playerByID(id)
			if player == nil {
				continue
			}
			player.State = domain.PlayerStateWaiting
			player.GameCount++
			lastEnd := now
			player.LastGameEndAt = &lastEnd
			delta.Players = append(delta.Players, player.Clone())
		}
	}

	entry := s.record(domain.AuditGameEnded, domain.GameEndedPayload{
		TeamID:    teamID,
		CourtID:   court.ID,
		ElapsedMS: elapsed.Milliseconds(),
	}, now)

	placement := Placement{Court: court.Clone()}
	if team != nil {
		placement.Team = team.Clone()
	}
	return placement, Outcome{Delta: delta, Audit: entry}, nil
}

// ToggleTimer pauses a running court timer or resumes a paused one.
//
// Pausing freezes the elapsed duration in PausedTime. Resuming rewrites
// TimerStart to now minus PausedTime, so now - TimerStart keeps producing the
// cumulative elapsed time across any number of pause and resume cycles.
func (s *Session) ToggleTimer(courtID string) (domain.Court, Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	court := s.courtByID(courtID)
	if court == nil {
		return domain.Court{}, Outcome{}, domain.ErrCourtNotFound
	}
	if court.Status != domain.CourtInUse {
		return domain.Court{}, Outcome{}, domain.ErrCourtNotInUse
	}

	now := s.nowFunc()

	if court.IsPaused {
		var paused time.Duration
		if court.PausedTime != nil {
			paused = *court.PausedTime
		}
		timerStart := now.Add(-paused)
		court.TimerStart = &timerStart
		court.IsPaused = false
		court.PausedTime = nil
	} else {
		var elapsed time.Duration
		if court.TimerStart != nil {
			elapsed = now.Sub(*court.TimerStart)
		}
		court.IsPaused = true
		court.PausedTime = &elapsed
	}

	entry := s.record(domain.AuditTimerToggled, domain.TimerToggledPayload{
		CourtID:   court.ID,
		Paused:    court.IsPaused,
		ElapsedMS: court.Elapsed(now).Milliseconds(),
	}, now)
	return court.Clone(), Outcome{
		Delta: domain.Delta{Courts: []domain.Court{court.Clone()}},
		Audit: entry,
	}, nil
}
