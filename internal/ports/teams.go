package ports

import (
	"log/slog"
	"net/http"

	"github.com/openplaylab/courtflow/internal/app"
	"github.com/openplaylab/courtflow/internal/logging"
)

func MakeSwapPlayersHandler(
	swapPlayers app.SwapPlayers,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildSessionCommandMiddleware("swap_players", allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx, sessionID, ok := sessionScope(r.Context(), w, r)
		if !ok {
			return
		}

		request := struct {
			PlayerAID string `json:"playerAId"`
			PlayerBID string `json:"playerBId"`
		}{}
		if !parseJSONBody(ctx, w, r, &request) {
			return
		}

		err := swapPlayers(ctx, sessionID, request.PlayerAID, request.PlayerBID)
		if err != nil {
			writeCommandError(ctx, w, err)
			return
		}

		logging.FromContext(ctx).Info("Swapped players",
			"playerAID", request.PlayerAID,
			"playerBID", request.PlayerBID,
		)

		writeJSONResponse(ctx, w, http.StatusOK, okResponse{Success: true})
	}

	return middleware(handler)
}

func MakeDeleteTeamHandler(
	deleteTeam app.DeleteTeam,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildSessionCommandMiddleware("delete_team", allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx, sessionID, ok := sessionScope(r.Context(), w, r)
		if !ok {
			return
		}
		teamID := r.PathValue("teamID")

		err := deleteTeam(ctx, sessionID, teamID)
		if err != nil {
			writeCommandError(ctx, w, err)
			return
		}

		logging.FromContext(ctx).Info("Deleted team", "teamID", teamID)

		writeJSONResponse(ctx, w, http.StatusOK, okResponse{Success: true})
	}

	return middleware(handler)
}
