package ports

import (
	"log/slog"
	"net/http"

	"github.com/openplaylab/courtflow/internal/app"
	"github.com/openplaylab/courtflow/internal/logging"
)

func MakeResetSessionHandler(
	resetSession app.ResetSession,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildSessionCommandMiddleware("reset_session", allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx, sessionID, ok := sessionScope(r.Context(), w, r)
		if !ok {
			return
		}

		err := resetSession(ctx, sessionID)
		if err != nil {
			writeCommandError(ctx, w, err)
			return
		}

		logging.FromContext(ctx).Info("Reset session")

		writeJSONResponse(ctx, w, http.StatusOK, okResponse{Success: true})
	}

	return middleware(handler)
}

func MakeResetStatsHandler(
	resetStats app.ResetStats,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildSessionCommandMiddleware("reset_stats", allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx, sessionID, ok := sessionScope(r.Context(), w, r)
		if !ok {
			return
		}

		err := resetStats(ctx, sessionID)
		if err != nil {
			writeCommandError(ctx, w, err)
			return
		}

		logging.FromContext(ctx).Info("Reset player stats")

		writeJSONResponse(ctx, w, http.StatusOK, okResponse{Success: true})
	}

	return middleware(handler)
}
