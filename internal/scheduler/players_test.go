package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openplaylab/courtflow/internal/domain"
	"github.com/openplaylab/courtflow/internal/domaintest"
)

func TestAddPlayer(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, time.March, 8, 18, 0, 0, 0, time.UTC)

	t.Run("registers a waiting player", func(t *testing.T) {
		t.Parallel()
		clock := NewMockClock(start)
		sess := newSession(domaintest.NewStateBuilder("session-1", "Friday night").Build(), clock)

		player, outcome, err := sess.AddPlayer("Alex", "m", "A")
		require.NoError(t, err)

		require.NotEmpty(t, player.ID)
		require.Equal(t, "Alex", player.Name)
		require.Equal(t, domain.PlayerStateWaiting, player.State)
		require.Equal(t, 0, player.GameCount)
		require.Nil(t, player.LastGameEndAt)
		require.Empty(t, player.TeammateHistory)
		require.Equal(t, "m", player.Gender)
		require.Equal(t, "A", player.Rank)
		require.Equal(t, start, player.CreatedAt)

		require.Equal(t, domain.AuditPlayerAdded, outcome.Audit.Type)
		require.Equal(t, domain.PlayerAddedPayload{PlayerID: player.ID, Name: "Alex"}, outcome.Audit.Payload)
		require.Equal(t, start, outcome.Audit.Timestamp)
		require.Equal(t, []domain.Player{player}, outcome.Delta.Players)

		snapshot := sess.Snapshot()
		require.Len(t, snapshot.Players, 1)
		require.Equal(t, player, snapshot.Players[0])
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		t.Parallel()
		clock := NewMockClock(start)
		sess := newSession(domaintest.NewStateBuilder("session-1", "Friday night").Build(), clock)

		player, _, err := sess.AddPlayer("  Jordan\t", "", "")
		require.NoError(t, err)
		require.Equal(t, "Jordan", player.Name)
	})

	t.Run("rejects blank names", func(t *testing.T) {
		t.Parallel()
		clock := NewMockClock(start)
		sess := newSession(domaintest.NewStateBuilder("session-1", "Friday night").Build(), clock)

		_, _, err := sess.AddPlayer("   ", "", "")
		require.ErrorIs(t, err, domain.ErrEmptyPlayerName)

		require.Empty(t, sess.Snapshot().Players)
		require.Empty(t, sess.AuditLog())
	})

	t.Run("suffixes duplicate display names", func(t *testing.T) {
		t.Parallel()
		clock := NewMockClock(start)
		sess := newSession(domaintest.NewStateBuilder("session-1", "Friday night").Build(), clock)

		first, _, err := sess.AddPlayer("Alex", "", "")
		require.NoError(t, err)
		second, _, err := sess.AddPlayer(" Alex ", "", "")
		require.NoError(t, err)
		third, _, err := sess.AddPlayer("Alex", "", "")
		require.NoError(t, err)

		require.Equal(t, "Alex", first.Name)
		require.Equal(t, "Alex (2)", second.Name)
		require.Equal(t, "Alex (3)", third.Name)
	})
}

func TestUpdatePlayer(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, time.March, 8, 18, 0, 0, 0, time.UTC)

	t.Run("merges the set fields", func(t *testing.T) {
		t.Parallel()
		clock := NewMockClock(start)
		state := domaintest.NewStateBuilder("session-1", "Friday night").
			WithPlayers(domaintest.NewPlayerBuilder("p1", "Alex").WithGender("m").Build()).
			Build()
		sess := newSession(state, clock)

		updated, outcome, err := sess.UpdatePlayer("p1", domain.PlayerUpdate{
			Name: ptr("Alexandra"),
			Rank: ptr("B"),
		})
		require.NoError(t, err)
		require.NotNil(t, updated)
		require.Equal(t, "Alexandra", updated.Name)
		require.Equal(t, "m", updated.Gender)
		require.Equal(t, "B", updated.Rank)
		require.Equal(t, domain.PlayerStateWaiting, updated.State)

		require.Equal(t, domain.PlayerUpdatedPayload{PlayerID: "p1", Found: true}, outcome.Audit.Payload)
		require.Len(t, outcome.Delta.Players, 1)
	})

	t.Run("moves players between pool states", func(t *testing.T) {
		t.Parallel()
		clock := NewMockClock(start)
		state := domaintest.NewStateBuilder("session-1", "Friday night").
			WithPlayers(domaintest.NewPlayerBuilder("p1", "Alex").Build()).
			Build()
		sess := newSession(state, clock)

		updated, _, err := sess.UpdatePlayer("p1", domain.PlayerUpdate{State: ptr(domain.PlayerStateResting)})
		require.NoError(t, err)
		require.Equal(t, domain.PlayerStateResting, updated.State)

		updated, _, err = sess.UpdatePlayer("p1", domain.PlayerUpdate{State: ptr(domain.PlayerStatePriority)})
		require.NoError(t, err)
		require.Equal(t, domain.PlayerStatePriority, updated.State)
	})

	t.Run("rejects queued and playing as target states", func(t *testing.T) {
		t.Parallel()
		clock := NewMockClock(start)
		state := domaintest.NewStateBuilder("session-1", "Friday night").
			WithPlayers(domaintest.NewPlayerBuilder("p1", "Alex").Build()).
			Build()
		sess := newSession(state, clock)

		for _, target := range []domain.PlayerState{domain.PlayerStateQueued, domain.PlayerStatePlaying} {
			_, _, err := sess.UpdatePlayer("p1", domain.PlayerUpdate{State: ptr(target)})
			require.ErrorIs(t, err, domain.ErrInvalidPlayerState)
		}
		require.Empty(t, sess.AuditLog())
	})

	t.Run("rejects state changes for players in the game flow", func(t *testing.T) {
		t.Parallel()
		clock := NewMockClock(start)
		state := domaintest.NewStateBuilder("session-1", "Friday night").
			WithPlayers(domaintest.NewPlayerBuilder("p1", "Alex").WithState(domain.PlayerStateQueued).Build()).
			Build()
		sess := newSession(state, clock)

		_, _, err := sess.UpdatePlayer("p1", domain.PlayerUpdate{State: ptr(domain.PlayerStateWaiting)})
		require.ErrorIs(t, err, domain.ErrInvalidPlayerState)
		require.Equal(t, domain.PlayerStateQueued, sess.Snapshot().Players[0].State)
	})

	t.Run("rejects blank names", func(t *testing.T) {
		t.Parallel()
		clock := NewMockClock(start)
		state := domaintest.NewStateBuilder("session-1", "Friday night").
			WithPlayers(domaintest.NewPlayerBuilder("p1", "Alex").Build()).
			Build()
		sess := newSession(state, clock)

		_, _, err := sess.UpdatePlayer("p1", domain.PlayerUpdate{Name: ptr("  ")})
		require.ErrorIs(t, err, domain.ErrEmptyPlayerName)
		require.Equal(t, "Alex", sess.Snapshot().Players[0].Name)
	})

	t.Run("records a no-op for unknown ids", func(t *testing.T) {
		t.Parallel()
		clock := NewMockClock(start)
		sess := newSession(domaintest.NewStateBuilder("session-1", "Friday night").Build(), clock)

		updated, outcome, err := sess.UpdatePlayer("missing", domain.PlayerUpdate{Name: ptr("Nobody")})
		require.NoError(t, err)
		require.Nil(t, updated)
		require.Equal(t, domain.AuditPlayerUpdated, outcome.Audit.Type)
		require.Equal(t, domain.PlayerUpdatedPayload{PlayerID: "missing", Found: false}, outcome.Audit.Payload)
		require.True(t, outcome.Delta.Empty())
		require.Len(t, sess.AuditLog(), 1)
	})
}

func TestDeletePlayer(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, time.March, 8, 18, 0, 0, 0, time.UTC)

	t.Run("removes the player and every team membership", func(t *testing.T) {
		t.Parallel()
		clock := NewMockClock(start)
		state := domaintest.NewStateBuilder("session-1", "Friday night").
			WithTeamSize(2).
			WithPlayers(
				domaintest.NewPlayerBuilder("p1", "Alex").WithState(domain.PlayerStateQueued).Build(),
				domaintest.NewPlayerBuilder("p2", "Sam").WithState(domain.PlayerStateQueued).Build(),
			).
			WithTeams(domaintest.NewTeamBuilder("t1", "Team 1", "p1", "p2").Build()).
			Build()
		sess := newSession(state, clock)

		outcome, err := sess.DeletePlayer("p1")
		require.NoError(t, err)

		snapshot := sess.Snapshot()
		require.Len(t, snapshot.Players, 1)
		require.Equal(t, "p2", snapshot.Players[0].ID)

		// The team record survives even though it is now short of a full roster.
		require.Len(t, snapshot.Teams, 1)
		require.Equal(t, []string{"p2"}, snapshot.Teams[0].PlayerIDs)

		require.Equal(t, []string{"p1"}, outcome.Delta.RemovedPlayerIDs)
		require.Len(t, outcome.Delta.Teams, 1)

		payload, ok := outcome.Audit.Payload.(domain.PlayerDeletedPayload)
		require.True(t, ok)
		require.Equal(t, "p1", payload.PlayerID)
		require.Equal(t, "Alex", payload.Name)
		require.Equal(t, []string{"t1"}, payload.TeamIDs)
	})

	t.Run("fails on unknown ids", func(t *testing.T) {
		t.Parallel()
		clock := NewMockClock(start)
		sess := newSession(domaintest.NewStateBuilder("session-1", "Friday night").Build(), clock)

		_, err := sess.DeletePlayer("missing")
		require.ErrorIs(t, err, domain.ErrPlayerNotFound)
		require.Empty(t, sess.AuditLog())
	})
}

func TestAdjustGameCount(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, time.March, 8, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		gameCount int
		delta     int
		expected  int
	}{
		{name: "increments", gameCount: 2, delta: 3, expected: 5},
		{name: "decrements", gameCount: 2, delta: -1, expected: 1},
		{name: "clamps at zero", gameCount: 2, delta: -5, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			clock := NewMockClock(start)
			state := domaintest.NewStateBuilder("session-1", "Friday night").
				WithPlayers(domaintest.NewPlayerBuilder("p1", "Alex").WithGameCount(tt.gameCount).Build()).
				Build()
			sess := newSession(state, clock)

			player, outcome, err := sess.AdjustGameCount("p1", tt.delta)
			require.NoError(t, err)
			require.Equal(t, tt.expected, player.GameCount)
			require.Equal(t, domain.GameCountAdjustedPayload{
				PlayerID: "p1",
				Delta:    tt.delta,
				NewCount: tt.expected,
			}, outcome.Audit.Payload)
		})
	}

	t.Run("fails on unknown ids", func(t *testing.T) {
		t.Parallel()
		clock := NewMockClock(start)
		sess := newSession(domaintest.NewStateBuilder("session-1", "Friday night").Build(), clock)

		_, _, err := sess.AdjustGameCount("missing", 1)
		require.ErrorIs(t, err, domain.ErrPlayerNotFound)
		require.Empty(t, sess.AuditLog())
	})
}
