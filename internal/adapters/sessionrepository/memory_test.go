package sessionrepository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openplaylab/courtflow/internal/domain"
	"github.com/openplaylab/courtflow/internal/domaintest"
)

func TestMemorySessionRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now()

	t.Run("create and load roundtrip", func(t *testing.T) {
		t.Parallel()

		m := NewMemory()

		state := makeFullState(now)
		require.NoError(t, m.Create(ctx, state))

		loaded, err := m.Load(ctx, state.ID)
		require.NoError(t, err)
		requireStatesEqual(t, state, loaded)
	})

	t.Run("load missing session", func(t *testing.T) {
		t.Parallel()

		m := NewMemory()

		_, err := m.Load(ctx, makeUUID(999))
		require.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("create duplicate session", func(t *testing.T) {
		t.Parallel()

		m := NewMemory()

		state := makeFullState(now)
		require.NoError(t, m.Create(ctx, state))
		require.Error(t, m.Create(ctx, state))
	})

	t.Run("save delta on missing session", func(t *testing.T) {
		t.Parallel()

		m := NewMemory()

		err := m.SaveDelta(ctx, makeUUID(999), domain.Delta{})
		require.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("save delta", func(t *testing.T) {
		t.Parallel()

		m := NewMemory()

		state := makeFullState(now)
		require.NoError(t, m.Create(ctx, state))

		endedAt := now.Add(5 * time.Minute)

		updatedOne := state.Players[0].Clone()
		updatedOne.State = domain.PlayerStateWaiting
		updatedOne.GameCount = 4
		updatedOne.LastGameEndAt = &endedAt

		newPlayer := domaintest.NewPlayerBuilder(makeUUID(104), "Dave").Build()
		newPlayer.CreatedAt = endedAt

		completedTeam := state.Teams[0].Clone()
		completedTeam.State = domain.TeamStateCompleted
		completedTeam.EndedAt = &endedAt

		freedCourt := state.Courts[0].Clone()
		freedCourt.Status = domain.CourtAvailable
		freedCourt.TeamID = nil
		freedCourt.TimerStart = nil
		freedCourt.IsPaused = false
		freedCourt.PausedTime = nil

		teamCounter := 2
		delta := domain.Delta{
			Players:          []domain.Player{updatedOne, newPlayer},
			RemovedPlayerIDs: []string{makeUUID(103)},
			Teams:            []domain.Team{completedTeam},
			Courts:           []domain.Court{freedCourt},
			TeamCounter:      &teamCounter,
		}

		require.NoError(t, m.SaveDelta(ctx, state.ID, delta))

		loaded, err := m.Load(ctx, state.ID)
		require.NoError(t, err)

		want := state.Clone()
		want.Players = []domain.Player{updatedOne, state.Players[1], newPlayer}
		want.Teams = []domain.Team{completedTeam}
		want.Courts[0] = freedCourt
		want.TeamCounter = teamCounter

		requireStatesEqual(t, want, loaded)
	})

	t.Run("save delta preserves registration order on update", func(t *testing.T) {
		t.Parallel()

		m := NewMemory()

		state := makeFullState(now)
		require.NoError(t, m.Create(ctx, state))

		renamed := state.Players[0].Clone()
		renamed.Name = "Alice v2"

		require.NoError(t, m.SaveDelta(ctx, state.ID, domain.Delta{Players: []domain.Player{renamed}}))

		loaded, err := m.Load(ctx, state.ID)
		require.NoError(t, err)

		require.Equal(t, makeUUID(101), loaded.Players[0].ID)
		require.Equal(t, "Alice v2", loaded.Players[0].Name)
		require.Equal(t, makeUUID(102), loaded.Players[1].ID)
	})

	t.Run("removed team stays removed", func(t *testing.T) {
		t.Parallel()

		m := NewMemory()

		state := makeFullState(now)
		require.NoError(t, m.Create(ctx, state))

		delta := domain.Delta{RemovedTeamIDs: []string{state.Teams[0].ID}}
		require.NoError(t, m.SaveDelta(ctx, state.ID, delta))

		loaded, err := m.Load(ctx, state.ID)
		require.NoError(t, err)
		require.Empty(t, loaded.Teams)
	})

	t.Run("loaded state is isolated from the store", func(t *testing.T) {
		t.Parallel()

		m := NewMemory()

		state := makeFullState(now)
		require.NoError(t, m.Create(ctx, state))

		loaded, err := m.Load(ctx, state.ID)
		require.NoError(t, err)

		// Mutations on the returned copy must not leak back in.
		loaded.Players[0].Name = "mutated"
		loaded.Players[0].TeammateHistory[makeUUID(999)] = 1

		reloaded, err := m.Load(ctx, state.ID)
		require.NoError(t, err)
		require.Equal(t, "Alice", reloaded.Players[0].Name)
		require.NotContains(t, reloaded.Players[0].TeammateHistory, makeUUID(999))
	})

	t.Run("list", func(t *testing.T) {
		t.Parallel()

		m := NewMemory()

		older := domaintest.NewStateBuilder(makeUUID(11), "Monday").
			WithTeamSize(2).
			WithCourts(1).
			Build()
		older.CreatedAt = now.Add(-2 * time.Hour)

		newer := domaintest.NewStateBuilder(makeUUID(12), "Tuesday").
			WithCourts(2).
			WithPlayers(
				domaintest.NewPlayerBuilder(makeUUID(111), "Alice").Build(),
				domaintest.NewPlayerBuilder(makeUUID(112), "Bob").Build(),
			).
			Build()
		newer.CreatedAt = now.Add(-1 * time.Hour)

		require.NoError(t, m.Create(ctx, older))
		require.NoError(t, m.Create(ctx, newer))

		infos, err := m.List(ctx)
		require.NoError(t, err)
		require.Len(t, infos, 2)

		require.Equal(t, makeUUID(12), infos[0].ID)
		require.Equal(t, 2, infos[0].PlayerCount)
		require.Equal(t, 2, infos[0].CourtCount)

		require.Equal(t, makeUUID(11), infos[1].ID)
		require.Equal(t, 0, infos[1].PlayerCount)
		require.Equal(t, 1, infos[1].CourtCount)
	})
}
