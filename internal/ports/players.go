package ports

import (
	"log/slog"
	"net/http"

	"github.com/openplaylab/courtflow/internal/app"
	"github.com/openplaylab/courtflow/internal/domain"
	"github.com/openplaylab/courtflow/internal/logging"
)

func MakeAddPlayerHandler(
	addPlayer app.AddPlayer,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildSessionCommandMiddleware("add_player", allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx, sessionID, ok := sessionScope(r.Context(), w, r)
		if !ok {
			return
		}

		request := struct {
			Name   string `json:"name"`
			Gender string `json:"gender"`
			Rank   string `json:"rank"`
		}{}
		if !parseJSONBody(ctx, w, r, &request) {
			return
		}

		player, err := addPlayer(ctx, sessionID, request.Name, request.Gender, request.Rank)
		if err != nil {
			writeCommandError(ctx, w, err)
			return
		}

		logging.FromContext(ctx).Info("Added player", "playerID", player.ID)

		writeJSONResponse(ctx, w, http.StatusCreated, playerResponse{
			Success: true,
			Player:  toPlayerData(player),
		})
	}

	return middleware(handler)
}

func MakeUpdatePlayerHandler(
	updatePlayer app.UpdatePlayer,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildSessionCommandMiddleware("update_player", allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx, sessionID, ok := sessionScope(r.Context(), w, r)
		if !ok {
			return
		}
		playerID := r.PathValue("playerID")

		request := struct {
			Name   *string `json:"name"`
			State  *string `json:"state"`
			Gender *string `json:"gender"`
			Rank   *string `json:"rank"`
		}{}
		if !parseJSONBody(ctx, w, r, &request) {
			return
		}

		update := domain.PlayerUpdate{
			Name:   request.Name,
			Gender: request.Gender,
			Rank:   request.Rank,
		}
		if request.State != nil {
			state := domain.PlayerState(*request.State)
			update.State = &state
		}

		player, err := updatePlayer(ctx, sessionID, playerID, update)
		if err != nil {
			writeCommandError(ctx, w, err)
			return
		}

		// A null player reports that the id matched nothing and the update was
		// recorded as a no-op.
		response := updatedPlayerResponse{Success: true}
		if player != nil {
			data := toPlayerData(*player)
			response.Player = &data
		}

		writeJSONResponse(ctx, w, http.StatusOK, response)
	}

	return middleware(handler)
}

func MakeDeletePlayerHandler(
	deletePlayer app.DeletePlayer,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildSessionCommandMiddleware("delete_player", allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx, sessionID, ok := sessionScope(r.Context(), w, r)
		if !ok {
			return
		}
		playerID := r.PathValue("playerID")

		err := deletePlayer(ctx, sessionID, playerID)
		if err != nil {
			writeCommandError(ctx, w, err)
			return
		}

		logging.FromContext(ctx).Info("Deleted player", "playerID", playerID)

		writeJSONResponse(ctx, w, http.StatusOK, okResponse{Success: true})
	}

	return middleware(handler)
}

func MakeAdjustGameCountHandler(
	adjustGameCount app.AdjustGameCount,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildSessionCommandMiddleware("adjust_game_count", allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx, sessionID, ok := sessionScope(r.Context(), w, r)
		if !ok {
			return
		}
		playerID := r.PathValue("playerID")

		request := struct {
			Delta int `json:"delta"`
		}{}
		if !parseJSONBody(ctx, w, r, &request) {
			return
		}

		player, err := adjustGameCount(ctx, sessionID, playerID, request.Delta)
		if err != nil {
			writeCommandError(ctx, w, err)
			return
		}

		writeJSONResponse(ctx, w, http.StatusOK, playerResponse{
			Success: true,
			Player:  toPlayerData(player),
		})
	}

	return middleware(handler)
}
