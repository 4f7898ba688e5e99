package ports

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/openplaylab/courtflow/internal/logging"
	"github.com/openplaylab/courtflow/internal/ratelimiting"
	"github.com/openplaylab/courtflow/internal/reporting"
	"github.com/openplaylab/courtflow/internal/strutils"
)

func NewRateLimitMiddleware(rateLimiter ratelimiting.RequestRateLimiter, onLimitExceeded http.HandlerFunc) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !rateLimiter.Consume(r) {
				onLimitExceeded(w, r)
				return
			}

			next(w, r)
		}
	}
}

func ComposeMiddlewares(middlewares ...func(http.HandlerFunc) http.HandlerFunc) func(http.HandlerFunc) http.HandlerFunc {
	if len(middlewares) == 1 {
		return middlewares[0]
	}
	first := middlewares[0]
	rest := ComposeMiddlewares(middlewares[1:]...)
	return func(h http.HandlerFunc) http.HandlerFunc {
		return first(rest(h))
	}
}

func makeOnLimitExceeded(rateLimiter ratelimiting.RequestRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logging.FromContext(ctx).Info("Rate limit exceeded", "key", rateLimiter.KeyFor(r))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"success":false,"cause":"rate limit exceeded"}`))
	}
}

// buildSessionCommandMiddleware is the shared stack for endpoints addressed at
// a single session: metrics, request logging, sentry, endpoint tagging, CORS
// and a rate limit per client IP followed by one per target session.
func buildSessionCommandMiddleware(
	endpoint string,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) func(http.HandlerFunc) http.HandlerFunc {
	ipLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(8),
		ratelimiting.BurstSize(480),
	)
	ipRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		ipLimiter,
		ratelimiting.IPKeyFunc,
	)
	sessionLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(4),
		ratelimiting.BurstSize(240),
	)
	sessionRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		// NOTE: Rate limiting based on caller controlled value
		sessionLimiter,
		ratelimiting.SessionKeyFunc,
	)

	return ComposeMiddlewares(
		buildMetricsMiddleware(endpoint),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware(endpoint),
		BuildCORSMiddleware(allowedOrigins),
		NewRateLimitMiddleware(ipRateLimiter, makeOnLimitExceeded(ipRateLimiter)),
		NewRateLimitMiddleware(sessionRateLimiter, makeOnLimitExceeded(sessionRateLimiter)),
	)
}

// sessionScope normalizes the session id from the request path and stamps it
// on the logging and reporting context. When ok is false the error response
// has already been written.
func sessionScope(ctx context.Context, w http.ResponseWriter, r *http.Request) (context.Context, string, bool) {
	rawSessionID := r.PathValue("sessionID")

	sessionID, err := strutils.NormalizeUUID(rawSessionID)
	if err != nil {
		writeErrorResponse(ctx, w, http.StatusBadRequest, "invalid session id")
		return ctx, "", false
	}

	// Sessions are the unit of interaction, so reports group by session id.
	ctx = reporting.SetSessionIDInContext(ctx, sessionID)
	ctx = reporting.AddExtrasToContext(ctx, map[string]string{
		"sessionID": sessionID,
	})
	ctx = logging.AddMetaToContext(ctx, slog.String("sessionID", sessionID))

	return ctx, sessionID, true
}

// parseJSONBody decodes the request body into target. When ok is false the
// error response has already been written.
func parseJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, target any) bool {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		reporting.Report(ctx, fmt.Errorf("failed to read request body: %w", err))
		writeErrorResponse(ctx, w, http.StatusBadRequest, "failed to read request body")
		return false
	}

	err = json.Unmarshal(body, target)
	if err != nil {
		writeErrorResponse(ctx, w, http.StatusBadRequest, "failed to parse request body")
		return false
	}

	return true
}
