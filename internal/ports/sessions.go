package ports

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/openplaylab/courtflow/internal/app"
	"github.com/openplaylab/courtflow/internal/logging"
	"github.com/openplaylab/courtflow/internal/ratelimiting"
	"github.com/openplaylab/courtflow/internal/reporting"
)

func MakeCreateSessionHandler(
	createSession app.CreateSession,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	// Every accepted call writes a durable row.
	ipLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(1),
		ratelimiting.BurstSize(20),
	)
	ipRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		ipLimiter,
		ratelimiting.IPKeyFunc,
	)

	middleware := ComposeMiddlewares(
		buildMetricsMiddleware("create_session"),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware("create_session"),
		BuildCORSMiddleware(allowedOrigins),
		NewRateLimitMiddleware(ipRateLimiter, makeOnLimitExceeded(ipRateLimiter)),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		request := struct {
			Name                string   `json:"name"`
			TeamSize            int      `json:"teamSize"`
			GameDurationMinutes int      `json:"gameDurationMinutes"`
			CourtNames          []string `json:"courtNames"`
			CourtCount          int      `json:"courtCount"`
		}{}
		if !parseJSONBody(ctx, w, r, &request) {
			return
		}

		ctx = logging.AddMetaToContext(ctx, slog.String("sessionName", request.Name))

		state, err := createSession(ctx, app.CreateSessionInput{
			Name:         request.Name,
			TeamSize:     request.TeamSize,
			GameDuration: time.Duration(request.GameDurationMinutes) * time.Minute,
			CourtNames:   request.CourtNames,
			CourtCount:   request.CourtCount,
		})
		if err != nil {
			writeCommandError(ctx, w, err)
			return
		}

		logging.FromContext(ctx).Info("Created session", "sessionID", state.ID)

		writeJSONResponse(ctx, w, http.StatusCreated, sessionResponse{
			Success: true,
			Session: toSessionData(state, state.CreatedAt),
		})
	}

	return middleware(handler)
}

func MakeListSessionsHandler(
	listSessions app.ListSessions,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	ipLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(4),
		ratelimiting.BurstSize(80),
	)
	ipRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		ipLimiter,
		ratelimiting.IPKeyFunc,
	)

	middleware := ComposeMiddlewares(
		buildMetricsMiddleware("list_sessions"),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware("list_sessions"),
		BuildCORSMiddleware(allowedOrigins),
		NewRateLimitMiddleware(ipRateLimiter, makeOnLimitExceeded(ipRateLimiter)),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		infos, err := listSessions(ctx)
		if err != nil {
			// NOTE: ListSessions implementations handle their own error reporting
			writeErrorResponse(ctx, w, http.StatusInternalServerError, "internal server error")
			return
		}

		sessions := make([]sessionInfoData, 0, len(infos))
		for _, info := range infos {
			sessions = append(sessions, toSessionInfoData(info))
		}

		writeJSONResponse(ctx, w, http.StatusOK, sessionListResponse{
			Success:  true,
			Sessions: sessions,
		})
	}

	return middleware(handler)
}

func MakeGetSessionHandler(
	getSession app.GetSession,
	nowFunc func() time.Time,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildSessionCommandMiddleware("get_session", allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx, sessionID, ok := sessionScope(r.Context(), w, r)
		if !ok {
			return
		}

		state, err := getSession(ctx, sessionID)
		if err != nil {
			writeCommandError(ctx, w, err)
			return
		}

		// Court timers are rendered against a single read of the clock so the
		// whole snapshot is coherent.
		writeJSONResponse(ctx, w, http.StatusOK, sessionResponse{
			Success: true,
			Session: toSessionData(state, nowFunc()),
		})
	}

	return middleware(handler)
}

func MakeGetAuditLogHandler(
	getAuditLog app.GetAuditLog,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildSessionCommandMiddleware("get_audit_log", allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx, sessionID, ok := sessionScope(r.Context(), w, r)
		if !ok {
			return
		}

		limit := 0
		if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
			parsed, err := strconv.Atoi(rawLimit)
			if err != nil || parsed < 0 {
				writeErrorResponse(ctx, w, http.StatusBadRequest, "invalid limit")
				return
			}
			limit = parsed
		}

		logEntries, err := getAuditLog(ctx, sessionID, limit)
		if err != nil {
			// NOTE: GetAuditLog implementations handle their own error reporting
			writeErrorResponse(ctx, w, http.StatusInternalServerError, "internal server error")
			return
		}

		entries := make([]auditEntryData, 0, len(logEntries))
		for _, entry := range logEntries {
			entries = append(entries, toAuditEntryData(entry))
		}

		writeJSONResponse(ctx, w, http.StatusOK, auditLogResponse{
			Success: true,
			Entries: entries,
		})
	}

	return middleware(handler)
}
