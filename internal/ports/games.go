package ports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/openplaylab/courtflow/internal/app"
	"github.com/openplaylab/courtflow/internal/logging"
)

func MakeAutoMatchHandler(
	autoMatch app.AutoMatch,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildSessionCommandMiddleware("auto_match", allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx, sessionID, ok := sessionScope(r.Context(), w, r)
		if !ok {
			return
		}

		formed, err := autoMatch(ctx, sessionID)
		if err != nil {
			writeCommandError(ctx, w, err)
			return
		}

		logging.FromContext(ctx).Info("Formed teams", "teamCount", len(formed))

		teams := make([]teamData, 0, len(formed))
		for _, team := range formed {
			teams = append(teams, toTeamData(team))
		}

		writeJSONResponse(ctx, w, http.StatusOK, teamsResponse{
			Success: true,
			Teams:   teams,
		})
	}

	return middleware(handler)
}

func MakeStartGameHandler(
	startGame app.StartGame,
	nowFunc func() time.Time,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildSessionCommandMiddleware("start_game", allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx, sessionID, ok := sessionScope(r.Context(), w, r)
		if !ok {
			return
		}

		request := struct {
			TeamID string `json:"teamId"`
		}{}
		if !parseJSONBody(ctx, w, r, &request) {
			return
		}

		placement, err := startGame(ctx, sessionID, request.TeamID)
		if err != nil {
			writeCommandError(ctx, w, err)
			return
		}

		logging.FromContext(ctx).Info("Started game",
			"teamID", placement.Team.ID,
			"courtID", placement.Court.ID,
		)

		writeJSONResponse(ctx, w, http.StatusOK, placementResponse{
			Success: true,
			Team:    toTeamData(placement.Team),
			Court:   toCourtData(placement.Court, nowFunc()),
		})
	}

	return middleware(handler)
}

func MakeEndGameHandler(
	endGame app.EndGame,
	nowFunc func() time.Time,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildSessionCommandMiddleware("end_game", allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx, sessionID, ok := sessionScope(r.Context(), w, r)
		if !ok {
			return
		}
		courtID := r.PathValue("courtID")

		placement, err := endGame(ctx, sessionID, courtID)
		if err != nil {
			writeCommandError(ctx, w, err)
			return
		}

		logging.FromContext(ctx).Info("Ended game",
			"teamID", placement.Team.ID,
			"courtID", placement.Court.ID,
		)

		writeJSONResponse(ctx, w, http.StatusOK, placementResponse{
			Success: true,
			Team:    toTeamData(placement.Team),
			Court:   toCourtData(placement.Court, nowFunc()),
		})
	}

	return middleware(handler)
}

func MakeToggleTimerHandler(
	toggleTimer app.ToggleTimer,
	nowFunc func() time.Time,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildSessionCommandMiddleware("toggle_timer", allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx, sessionID, ok := sessionScope(r.Context(), w, r)
		if !ok {
			return
		}
		courtID := r.PathValue("courtID")

		court, err := toggleTimer(ctx, sessionID, courtID)
		if err != nil {
			writeCommandError(ctx, w, err)
			return
		}

		logging.FromContext(ctx).Info("Toggled timer",
			"courtID", court.ID,
			"paused", court.IsPaused,
		)

		writeJSONResponse(ctx, w, http.StatusOK, courtResponse{
			Success: true,
			Court:   toCourtData(court, nowFunc()),
		})
	}

	return middleware(handler)
}
