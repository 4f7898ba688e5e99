package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	// TLS roots for static binaries with no system certificate store.
	_ "golang.org/x/crypto/x509roots/fallback"

	"github.com/openplaylab/courtflow/internal/adapters/auditlog"
	"github.com/openplaylab/courtflow/internal/adapters/cache"
	"github.com/openplaylab/courtflow/internal/adapters/database"
	"github.com/openplaylab/courtflow/internal/adapters/sessionrepository"
	"github.com/openplaylab/courtflow/internal/app"
	"github.com/openplaylab/courtflow/internal/config"
	"github.com/openplaylab/courtflow/internal/logging"
	"github.com/openplaylab/courtflow/internal/ports"
	"github.com/openplaylab/courtflow/internal/reporting"
	"github.com/openplaylab/courtflow/internal/telemetry"
)

// TODO: Put in config
const PROD_DOMAIN_SUFFIX = "openplaylab.com"
const STAGING_DOMAIN_SUFFIX = "courtflow.pages.dev"

func main() {
	instanceID := uuid.New().String()
	logger := slog.New(
		logging.NewTraceCorrelationLogHandler(slog.NewJSONHandler(os.Stdout, nil)),
	).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	config, err := config.ConfigFromEnv()
	if err != nil {
		fail("Failed to load config", "error", err.Error())
	}
	logger.Info("Loaded config", "config", config.NonSensitiveString())

	otelShutdown, err := telemetry.SetupOTelSDK(context.Background(), "courtflow", config.OTLPEndpoint())
	if err != nil {
		fail("Failed to initialize OpenTelemetry", "error", err.Error())
	}
	defer func() {
		err := otelShutdown(context.Background())
		if err != nil {
			logger.Error("Failed to shut down OpenTelemetry", "error", err.Error())
		}
	}()
	logger.Info("Initialized OpenTelemetry")

	sentryMiddleware, flush, err := reporting.NewSentryMiddlewareOrMock(config)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry middleware")

	// Expiry only drops the in-memory engine; the session is rehydrated from
	// the repository on the next command.
	sessions := cache.NewTTLSessionCache(30 * time.Minute)

	logger.Info("Initializing database connection")
	var sessionRepo sessionrepository.SessionRepository
	var auditStore auditlog.Store
	db, err := database.NewConfiguredPostgresDatabase(config)
	if err == nil {
		logger.Info("Initialized database connection")

		schemaName := database.GetSchemaName(!config.IsProduction())

		err = database.NewDatabaseMigrator(db, logger.With("component", "migrator")).Migrate(context.Background(), schemaName)
		if err != nil {
			fail("Failed to migrate database", "error", err.Error())
		}

		sessionRepo = sessionrepository.NewPostgres(db, schemaName)
		auditStore = auditlog.NewPostgres(db, schemaName)
		logger.Info("Initialized session repository", "schema", schemaName)
	} else if config.IsDevelopment() {
		logger.Warn("Failed to connect to database - sessions will not survive a restart", "error", err.Error())
		sessionRepo = sessionrepository.NewMemory()
		auditStore = auditlog.NewMemory()
	} else {
		fail("Failed to initialize database connection", "error", err.Error())
	}

	auditSink := auditlog.NewFanout(auditStore, auditlog.NewSlogSink())

	allowedOrigins, err := ports.NewDomainSuffixes(PROD_DOMAIN_SUFFIX, STAGING_DOMAIN_SUFFIX)
	if err != nil {
		fail("Failed to initialize allowed origins", "error", err.Error())
	}

	nowFunc := time.Now
	newID := func() string {
		return uuid.New().String()
	}

	resolveSession := app.BuildResolveSession(sessions, sessionRepo, nowFunc, newID)

	createSession := app.BuildCreateSession(sessions, sessionRepo, auditSink, nowFunc, newID)
	getSession := app.BuildGetSession(resolveSession)
	listSessions := app.BuildListSessions(sessionRepo)
	getAuditLog := app.BuildGetAuditLog(auditStore)

	addPlayer := app.BuildAddPlayer(resolveSession, sessionRepo, auditSink)
	updatePlayer := app.BuildUpdatePlayer(resolveSession, sessionRepo, auditSink)
	deletePlayer := app.BuildDeletePlayer(resolveSession, sessionRepo, auditSink)
	adjustGameCount := app.BuildAdjustGameCount(resolveSession, sessionRepo, auditSink)

	autoMatch := app.BuildAutoMatch(resolveSession, sessionRepo, auditSink)
	startGame := app.BuildStartGame(resolveSession, sessionRepo, auditSink)
	endGame := app.BuildEndGame(resolveSession, sessionRepo, auditSink)
	toggleTimer := app.BuildToggleTimer(resolveSession, sessionRepo, auditSink)

	swapPlayers := app.BuildSwapPlayers(resolveSession, sessionRepo, auditSink)
	deleteTeam := app.BuildDeleteTeam(resolveSession, sessionRepo, auditSink)

	resetSession := app.BuildResetSession(resolveSession, sessionRepo, auditSink)
	resetStats := app.BuildResetStats(resolveSession, sessionRepo, auditSink)

	http.HandleFunc(
		"OPTIONS /v1/sessions",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"POST /v1/sessions",
		ports.MakeCreateSessionHandler(
			createSession,
			allowedOrigins,
			logger.With("port", "createsession"),
			sentryMiddleware,
		),
	)
	http.HandleFunc(
		"GET /v1/sessions",
		ports.MakeListSessionsHandler(
			listSessions,
			allowedOrigins,
			logger.With("port", "listsessions"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/sessions/{sessionID}",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"GET /v1/sessions/{sessionID}",
		ports.MakeGetSessionHandler(
			getSession,
			nowFunc,
			allowedOrigins,
			logger.With("port", "getsession"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/sessions/{sessionID}/audit",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"GET /v1/sessions/{sessionID}/audit",
		ports.MakeGetAuditLogHandler(
			getAuditLog,
			allowedOrigins,
			logger.With("port", "getauditlog"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/sessions/{sessionID}/players",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"POST /v1/sessions/{sessionID}/players",
		ports.MakeAddPlayerHandler(
			addPlayer,
			allowedOrigins,
			logger.With("port", "addplayer"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/sessions/{sessionID}/players/{playerID}",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"PATCH /v1/sessions/{sessionID}/players/{playerID}",
		ports.MakeUpdatePlayerHandler(
			updatePlayer,
			allowedOrigins,
			logger.With("port", "updateplayer"),
			sentryMiddleware,
		),
	)
	http.HandleFunc(
		"DELETE /v1/sessions/{sessionID}/players/{playerID}",
		ports.MakeDeletePlayerHandler(
			deletePlayer,
			allowedOrigins,
			logger.With("port", "deleteplayer"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/sessions/{sessionID}/players/{playerID}/game-count",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"PATCH /v1/sessions/{sessionID}/players/{playerID}/game-count",
		ports.MakeAdjustGameCountHandler(
			adjustGameCount,
			allowedOrigins,
			logger.With("port", "adjustgamecount"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/sessions/{sessionID}/automatch",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"POST /v1/sessions/{sessionID}/automatch",
		ports.MakeAutoMatchHandler(
			autoMatch,
			allowedOrigins,
			logger.With("port", "automatch"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/sessions/{sessionID}/games",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"POST /v1/sessions/{sessionID}/games",
		ports.MakeStartGameHandler(
			startGame,
			nowFunc,
			allowedOrigins,
			logger.With("port", "startgame"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/sessions/{sessionID}/courts/{courtID}/game",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"DELETE /v1/sessions/{sessionID}/courts/{courtID}/game",
		ports.MakeEndGameHandler(
			endGame,
			nowFunc,
			allowedOrigins,
			logger.With("port", "endgame"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/sessions/{sessionID}/courts/{courtID}/timer",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"POST /v1/sessions/{sessionID}/courts/{courtID}/timer",
		ports.MakeToggleTimerHandler(
			toggleTimer,
			nowFunc,
			allowedOrigins,
			logger.With("port", "toggletimer"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/sessions/{sessionID}/swap",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"POST /v1/sessions/{sessionID}/swap",
		ports.MakeSwapPlayersHandler(
			swapPlayers,
			allowedOrigins,
			logger.With("port", "swapplayers"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/sessions/{sessionID}/teams/{teamID}",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"DELETE /v1/sessions/{sessionID}/teams/{teamID}",
		ports.MakeDeleteTeamHandler(
			deleteTeam,
			allowedOrigins,
			logger.With("port", "deleteteam"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/sessions/{sessionID}/reset",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"POST /v1/sessions/{sessionID}/reset",
		ports.MakeResetSessionHandler(
			resetSession,
			allowedOrigins,
			logger.With("port", "resetsession"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/sessions/{sessionID}/reset-stats",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"POST /v1/sessions/{sessionID}/reset-stats",
		ports.MakeResetStatsHandler(
			resetStats,
			allowedOrigins,
			logger.With("port", "resetstats"),
			sentryMiddleware,
		),
	)

	logger.Info("Init complete")
	err = http.ListenAndServe(
		fmt.Sprintf(":%s", config.Port()),
		otelhttp.NewHandler(http.DefaultServeMux, "courtflow"),
	)
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("Server shutdown")
	} else {
		fail("Server error", "error", err.Error())
	}
}
