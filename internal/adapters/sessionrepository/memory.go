package sessionrepository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/openplaylab/courtflow/internal/domain"
)

// Memory keeps full session states in a mutex-guarded map. It backs local
// development without a database and the command flow tests.
type Memory struct {
	mu     sync.Mutex
	states map[string]domain.SessionState
}

func NewMemory() *Memory {
	return &Memory{
		states: make(map[string]domain.SessionState),
	}
}

func (m *Memory) Create(ctx context.Context, state domain.SessionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.states[state.ID]; ok {
		return fmt.Errorf("session '%s' already exists", state.ID)
	}

	m.states[state.ID] = state.Clone()
	return nil
}

func (m *Memory) Load(ctx context.Context, sessionID string) (domain.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[sessionID]
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}

	return state.Clone(), nil
}

func (m *Memory) SaveDelta(ctx context.Context, sessionID string, delta domain.Delta) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.states[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}

	state := stored.Clone()

	for _, player := range delta.Players {
		i := slices.IndexFunc(state.Players, func(p domain.Player) bool { return p.ID == player.ID })
		if i == -1 {
			state.Players = append(state.Players, player.Clone())
		} else {
			state.Players[i] = player.Clone()
		}
	}
	state.Players = slices.DeleteFunc(state.Players, func(p domain.Player) bool {
		return slices.Contains(delta.RemovedPlayerIDs, p.ID)
	})

	for _, team := range delta.Teams {
		i := slices.IndexFunc(state.Teams, func(t domain.Team) bool { return t.ID == team.ID })
		if i == -1 {
			state.Teams = append(state.Teams, team.Clone())
		} else {
			state.Teams[i] = team.Clone()
		}
	}
	state.Teams = slices.DeleteFunc(state.Teams, func(t domain.Team) bool {
		return slices.Contains(delta.RemovedTeamIDs, t.ID)
	})

	for _, court := range delta.Courts {
		i := slices.IndexFunc(state.Courts, func(c domain.Court) bool { return c.ID == court.ID })
		if i == -1 {
			state.Courts = append(state.Courts, court.Clone())
		} else {
			state.Courts[i] = court.Clone()
		}
	}

	if delta.TeamCounter != nil {
		state.TeamCounter = *delta.TeamCounter
	}

	m.states[sessionID] = state
	return nil
}

func (m *Memory) List(ctx context.Context) ([]domain.SessionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	infos := make([]domain.SessionInfo, 0, len(m.states))
	for _, state := range m.states {
		infos = append(infos, domain.SessionInfo{
			ID:          state.ID,
			Name:        state.Name,
			CreatedAt:   state.CreatedAt,
			Settings:    state.Settings,
			PlayerCount: len(state.Players),
			CourtCount:  len(state.Courts),
		})
	}

	// Newest first, matching the postgres implementation
	slices.SortFunc(infos, func(a, b domain.SessionInfo) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return infos, nil
}

type StubSessionRepository struct{}

func NewStubSessionRepository() *StubSessionRepository {
	return &StubSessionRepository{}
}

func (s *StubSessionRepository) Create(ctx context.Context, state domain.SessionState) error {
	return nil
}

func (s *StubSessionRepository) Load(ctx context.Context, sessionID string) (domain.SessionState, error) {
	return domain.SessionState{}, domain.ErrSessionNotFound
}

func (s *StubSessionRepository) SaveDelta(ctx context.Context, sessionID string, delta domain.Delta) error {
	return nil
}

func (s *StubSessionRepository) List(ctx context.Context) ([]domain.SessionInfo, error) {
	return []domain.SessionInfo{}, nil
}
