package ports_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openplaylab/courtflow/internal/app"
	"github.com/openplaylab/courtflow/internal/domain"
	"github.com/openplaylab/courtflow/internal/domaintest"
	"github.com/openplaylab/courtflow/internal/ports"
	"github.com/openplaylab/courtflow/internal/scheduler"
)

func TestMakeAutoMatchHandler(t *testing.T) {
	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	allowedOrigins, err := ports.NewDomainSuffixes("example.com", "test.com")
	require.NoError(t, err)
	noopMiddleware := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			h(w, r)
		}
	}

	sessionID := "01234567-89ab-cdef-0123-456789abcdef"
	aliceID := "11111111-1111-1111-1111-111111111111"
	bobID := "22222222-2222-2222-2222-222222222222"
	carolID := "33333333-3333-3333-3333-333333333333"
	daveID := "44444444-4444-4444-4444-444444444444"
	teamID1 := "55555555-5555-5555-5555-555555555555"
	teamID2 := "66666666-6666-6666-6666-666666666666"

	makeAutoMatch := func(t *testing.T, teams []domain.Team, err error) (app.AutoMatch, *bool) {
		called := false
		return func(ctx context.Context, gotSessionID string) ([]domain.Team, error) {
			t.Helper()
			require.Equal(t, sessionID, gotSessionID)

			called = true

			return teams, err
		}, &called
	}

	makeAutoMatchHandler := func(autoMatch app.AutoMatch) http.HandlerFunc {
		return ports.MakeAutoMatchHandler(
			autoMatch,
			allowedOrigins,
			testLogger,
			noopMiddleware,
		)
	}

	makeRequest := func(sessionID string) *http.Request {
		req := httptest.NewRequest("POST", fmt.Sprintf("/v1/sessions/%s/automatch", sessionID), nil)
		req.SetPathValue("sessionID", sessionID)
		return req
	}

	t.Run("teams formed", func(t *testing.T) {
		teams := []domain.Team{
			domaintest.NewTeamBuilder(teamID1, "Team 1", aliceID, bobID).Build(),
			domaintest.NewTeamBuilder(teamID2, "Team 2", carolID, daveID).Build(),
		}
		autoMatchFunc, called := makeAutoMatch(t, teams, nil)
		handler := makeAutoMatchHandler(autoMatchFunc)

		req := makeRequest(sessionID)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		require.JSONEq(t, fmt.Sprintf(`{
			"success": true,
			"teams": [
				{"id": "%s", "name": "Team 1", "playerIds": ["%s", "%s"], "state": "queued"},
				{"id": "%s", "name": "Team 2", "playerIds": ["%s", "%s"], "state": "queued"}
			]
		}`, teamID1, aliceID, bobID, teamID2, carolID, daveID), body)
		require.True(t, *called)
		require.Equal(t, "application/json", w.Result().Header.Get("Content-Type"))
	})

	t.Run("not enough players", func(t *testing.T) {
		autoMatchFunc, called := makeAutoMatch(t, nil, domain.ErrNotEnoughPlayers)
		handler := makeAutoMatchHandler(autoMatchFunc)

		req := makeRequest(sessionID)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusConflict, w.Code)
		body := w.Body.String()
		require.JSONEq(t, `{"success":false,"cause":"not enough eligible players"}`, body)
		require.True(t, *called)
	})

	t.Run("session does not exist", func(t *testing.T) {
		autoMatchFunc, called := makeAutoMatch(t, nil, domain.ErrSessionNotFound)
		handler := makeAutoMatchHandler(autoMatchFunc)

		req := makeRequest(sessionID)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
		body := w.Body.String()
		require.JSONEq(t, `{"success":false,"cause":"session not found"}`, body)
		require.True(t, *called)
	})

	t.Run("invalid session id", func(t *testing.T) {
		autoMatchFunc, called := makeAutoMatch(t, nil, nil)
		handler := makeAutoMatchHandler(autoMatchFunc)

		req := makeRequest("not-a-uuid")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		body := w.Body.String()
		require.JSONEq(t, `{"success":false,"cause":"invalid session id"}`, body)
		require.False(t, *called)
	})
}

func TestMakeStartGameHandler(t *testing.T) {
	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	allowedOrigins, err := ports.NewDomainSuffixes("example.com", "test.com")
	require.NoError(t, err)
	noopMiddleware := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			h(w, r)
		}
	}

	sessionID := "01234567-89ab-cdef-0123-456789abcdef"
	aliceID := "11111111-1111-1111-1111-111111111111"
	bobID := "22222222-2222-2222-2222-222222222222"
	teamID := "55555555-5555-5555-5555-555555555555"
	courtID := "77777777-7777-7777-7777-777777777777"

	now := time.Date(2025, 6, 6, 19, 30, 0, 0, time.UTC)

	makeStartGame := func(t *testing.T, expectedTeamID string, placement scheduler.Placement, err error) (app.StartGame, *bool) {
		called := false
		return func(ctx context.Context, gotSessionID string, gotTeamID string) (scheduler.Placement, error) {
			t.Helper()
			require.Equal(t, sessionID, gotSessionID)
			require.Equal(t, expectedTeamID, gotTeamID)

			called = true

			return placement, err
		}, &called
	}

	makeStartGameHandler := func(startGame app.StartGame) http.HandlerFunc {
		return ports.MakeStartGameHandler(
			startGame,
			func() time.Time { return now },
			allowedOrigins,
			testLogger,
			noopMiddleware,
		)
	}

	makeRequest := func(body string) *http.Request {
		req := httptest.NewRequest("POST", fmt.Sprintf("/v1/sessions/%s/games", sessionID), strings.NewReader(body))
		req.SetPathValue("sessionID", sessionID)
		return req
	}

	t.Run("game started", func(t *testing.T) {
		placement := scheduler.Placement{
			Team: domaintest.NewTeamBuilder(teamID, "Team 1", aliceID, bobID).
				WithState(domain.TeamStateInGame).
				WithCourtID(courtID).
				WithStartedAt(now).
				Build(),
			Court: domaintest.NewCourtBuilder(courtID, "Court 1").InUseBy(teamID, now).Build(),
		}
		startGameFunc, called := makeStartGame(t, teamID, placement, nil)
		handler := makeStartGameHandler(startGameFunc)

		req := makeRequest(fmt.Sprintf(`{"teamId":"%s"}`, teamID))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		require.JSONEq(t, fmt.Sprintf(`{
			"success": true,
			"team": {
				"id": "%s",
				"name": "Team 1",
				"playerIds": ["%s", "%s"],
				"state": "in_game",
				"courtId": "%s",
				"startedAt": "2025-06-06T19:30:00Z"
			},
			"court": {
				"id": "%s",
				"name": "Court 1",
				"position": 0,
				"status": "in_use",
				"teamId": "%s",
				"isPaused": false,
				"elapsedMs": 0
			}
		}`, teamID, aliceID, bobID, courtID, courtID, teamID), body)
		require.True(t, *called)
		require.Equal(t, "application/json", w.Result().Header.Get("Content-Type"))
	})

	t.Run("every court occupied", func(t *testing.T) {
		startGameFunc, called := makeStartGame(t, teamID, scheduler.Placement{}, domain.ErrNoCourtAvailable)
		handler := makeStartGameHandler(startGameFunc)

		req := makeRequest(fmt.Sprintf(`{"teamId":"%s"}`, teamID))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusConflict, w.Code)
		body := w.Body.String()
		require.JSONEq(t, `{"success":false,"cause":"no court available"}`, body)
		require.True(t, *called)
	})

	t.Run("team is not queued", func(t *testing.T) {
		startGameFunc, called := makeStartGame(t, teamID, scheduler.Placement{}, domain.ErrTeamNotQueued)
		handler := makeStartGameHandler(startGameFunc)

		req := makeRequest(fmt.Sprintf(`{"teamId":"%s"}`, teamID))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusConflict, w.Code)
		body := w.Body.String()
		require.JSONEq(t, `{"success":false,"cause":"team is not queued"}`, body)
		require.True(t, *called)
	})

	t.Run("team does not exist", func(t *testing.T) {
		startGameFunc, called := makeStartGame(t, teamID, scheduler.Placement{}, domain.ErrTeamNotFound)
		handler := makeStartGameHandler(startGameFunc)

		req := makeRequest(fmt.Sprintf(`{"teamId":"%s"}`, teamID))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
		body := w.Body.String()
		require.JSONEq(t, `{"success":false,"cause":"team not found"}`, body)
		require.True(t, *called)
	})

	t.Run("malformed body", func(t *testing.T) {
		startGameFunc, called := makeStartGame(t, teamID, scheduler.Placement{}, nil)
		handler := makeStartGameHandler(startGameFunc)

		req := makeRequest(`{"teamId":`)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		body := w.Body.String()
		require.Contains(t, body, "failed to parse request body")
		require.False(t, *called)
	})
}

func TestMakeEndGameHandler(t *testing.T) {
	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	allowedOrigins, err := ports.NewDomainSuffixes("example.com", "test.com")
	require.NoError(t, err)
	noopMiddleware := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			h(w, r)
		}
	}

	sessionID := "01234567-89ab-cdef-0123-456789abcdef"
	aliceID := "11111111-1111-1111-1111-111111111111"
	bobID := "22222222-2222-2222-2222-222222222222"
	teamID := "55555555-5555-5555-5555-555555555555"
	courtID := "77777777-7777-7777-7777-777777777777"

	now := time.Date(2025, 6, 6, 19, 30, 0, 0, time.UTC)
	startedAt := now.Add(-12 * time.Minute)

	makeEndGame := func(t *testing.T, expectedCourtID string, placement scheduler.Placement, err error) (app.EndGame, *bool) {
		called := false
		return func(ctx context.Context, gotSessionID string, gotCourtID string) (scheduler.Placement, error) {
			t.Helper()
			require.Equal(t, sessionID, gotSessionID)
			require.Equal(t, expectedCourtID, gotCourtID)

			called = true

			return placement, err
		}, &called
	}

	makeEndGameHandler := func(endGame app.EndGame) http.HandlerFunc {
		return ports.MakeEndGameHandler(
			endGame,
			func() time.Time { return now },
			allowedOrigins,
			testLogger,
			noopMiddleware,
		)
	}

	makeRequest := func() *http.Request {
		req := httptest.NewRequest("DELETE", fmt.Sprintf("/v1/sessions/%s/courts/%s/game", sessionID, courtID), nil)
		req.SetPathValue("sessionID", sessionID)
		req.SetPathValue("courtID", courtID)
		return req
	}

	t.Run("game ended", func(t *testing.T) {
		team := domaintest.NewTeamBuilder(teamID, "Team 1", aliceID, bobID).
			WithState(domain.TeamStateCompleted).
			WithCourtID(courtID).
			WithStartedAt(startedAt).
			Build()
		team.EndedAt = &now
		placement := scheduler.Placement{
			Team:  team,
			Court: domaintest.NewCourtBuilder(courtID, "Court 1").Build(),
		}
		endGameFunc, called := makeEndGame(t, courtID, placement, nil)
		handler := makeEndGameHandler(endGameFunc)

		req := makeRequest()
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		require.JSONEq(t, fmt.Sprintf(`{
			"success": true,
			"team": {
				"id": "%s",
				"name": "Team 1",
				"playerIds": ["%s", "%s"],
				"state": "completed",
				"courtId": "%s",
				"startedAt": "2025-06-06T19:18:00Z",
				"endedAt": "2025-06-06T19:30:00Z"
			},
			"court": {
				"id": "%s",
				"name": "Court 1",
				"position": 0,
				"status": "available",
				"isPaused": false,
				"elapsedMs": 0
			}
		}`, teamID, aliceID, bobID, courtID, courtID), body)
		require.True(t, *called)
		require.Equal(t, "application/json", w.Result().Header.Get("Content-Type"))
	})

	t.Run("court is idle", func(t *testing.T) {
		endGameFunc, called := makeEndGame(t, courtID, scheduler.Placement{}, domain.ErrCourtNotInUse)
		handler := makeEndGameHandler(endGameFunc)

		req := makeRequest()
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusConflict, w.Code)
		body := w.Body.String()
		require.JSONEq(t, `{"success":false,"cause":"court is not in use"}`, body)
		require.True(t, *called)
	})

	t.Run("court does not exist", func(t *testing.T) {
		endGameFunc, called := makeEndGame(t, courtID, scheduler.Placement{}, domain.ErrCourtNotFound)
		handler := makeEndGameHandler(endGameFunc)

		req := makeRequest()
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
		body := w.Body.String()
		require.JSONEq(t, `{"success":false,"cause":"court not found"}`, body)
		require.True(t, *called)
	})
}

func TestMakeToggleTimerHandler(t *testing.T) {
	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	allowedOrigins, err := ports.NewDomainSuffixes("example.com", "test.com")
	require.NoError(t, err)
	noopMiddleware := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			h(w, r)
		}
	}

	sessionID := "01234567-89ab-cdef-0123-456789abcdef"
	teamID := "55555555-5555-5555-5555-555555555555"
	courtID := "77777777-7777-7777-7777-777777777777"

	now := time.Date(2025, 6, 6, 19, 30, 0, 0, time.UTC)

	makeToggleTimer := func(t *testing.T, court domain.Court, err error) (app.ToggleTimer, *bool) {
		called := false
		return func(ctx context.Context, gotSessionID string, gotCourtID string) (domain.Court, error) {
			t.Helper()
			require.Equal(t, sessionID, gotSessionID)
			require.Equal(t, courtID, gotCourtID)

			called = true

			return court, err
		}, &called
	}

	makeToggleTimerHandler := func(toggleTimer app.ToggleTimer) http.HandlerFunc {
		return ports.MakeToggleTimerHandler(
			toggleTimer,
			func() time.Time { return now },
			allowedOrigins,
			testLogger,
			noopMiddleware,
		)
	}

	makeRequest := func() *http.Request {
		req := httptest.NewRequest("POST", fmt.Sprintf("/v1/sessions/%s/courts/%s/timer", sessionID, courtID), nil)
		req.SetPathValue("sessionID", sessionID)
		req.SetPathValue("courtID", courtID)
		return req
	}

	t.Run("paused court reports the frozen elapsed time", func(t *testing.T) {
		court := domaintest.NewCourtBuilder(courtID, "Court 1").
			InUseBy(teamID, now.Add(-9*time.Minute)).
			Paused(5 * time.Minute).
			Build()
		toggleTimerFunc, called := makeToggleTimer(t, court, nil)
		handler := makeToggleTimerHandler(toggleTimerFunc)

		req := makeRequest()
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		require.JSONEq(t, fmt.Sprintf(`{
			"success": true,
			"court": {
				"id": "%s",
				"name": "Court 1",
				"position": 0,
				"status": "in_use",
				"teamId": "%s",
				"isPaused": true,
				"elapsedMs": 300000
			}
		}`, courtID, teamID), body)
		require.True(t, *called)
		require.Equal(t, "application/json", w.Result().Header.Get("Content-Type"))
	})

	t.Run("resumed court reports the running elapsed time", func(t *testing.T) {
		court := domaintest.NewCourtBuilder(courtID, "Court 1").
			InUseBy(teamID, now.Add(-7*time.Minute)).
			Build()
		toggleTimerFunc, called := makeToggleTimer(t, court, nil)
		handler := makeToggleTimerHandler(toggleTimerFunc)

		req := makeRequest()
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		require.Contains(t, body, `"elapsedMs":420000`)
		require.Contains(t, body, `"isPaused":false`)
		require.True(t, *called)
	})

	t.Run("court does not exist", func(t *testing.T) {
		toggleTimerFunc, called := makeToggleTimer(t, domain.Court{}, domain.ErrCourtNotFound)
		handler := makeToggleTimerHandler(toggleTimerFunc)

		req := makeRequest()
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
		body := w.Body.String()
		require.JSONEq(t, `{"success":false,"cause":"court not found"}`, body)
		require.True(t, *called)
	})

	t.Run("court is idle", func(t *testing.T) {
		toggleTimerFunc, called := makeToggleTimer(t, domain.Court{}, domain.ErrCourtNotInUse)
		handler := makeToggleTimerHandler(toggleTimerFunc)

		req := makeRequest()
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusConflict, w.Code)
		body := w.Body.String()
		require.JSONEq(t, `{"success":false,"cause":"court is not in use"}`, body)
		require.True(t, *called)
	})
}
