package app

import (
	"context"
	"fmt"
	"time"

	"github.com/openplaylab/courtflow/internal/adapters/auditlog"
	"github.com/openplaylab/courtflow/internal/adapters/cache"
	"github.com/openplaylab/courtflow/internal/adapters/sessionrepository"
	"github.com/openplaylab/courtflow/internal/domain"
	"github.com/openplaylab/courtflow/internal/logging"
	"github.com/openplaylab/courtflow/internal/scheduler"
)

// CreateSessionInput carries the settings of a new session. CourtNames wins
// over CourtCount; a bare count produces courts named "Court 1".."Court N".
type CreateSessionInput struct {
	Name         string
	TeamSize     int
	GameDuration time.Duration
	CourtNames   []string
	CourtCount   int
}

type CreateSession func(ctx context.Context, input CreateSessionInput) (domain.SessionState, error)

func BuildCreateSession(
	sessions cache.SessionCache,
	repo sessionrepository.SessionRepository,
	sink auditlog.Sink,
	nowFunc func() time.Time,
	newID func() string,
) CreateSession {
	return func(ctx context.Context, input CreateSessionInput) (domain.SessionState, error) {
		courtNames := input.CourtNames
		if len(courtNames) == 0 && input.CourtCount > 0 {
			// Blank names; the engine fills in "Court N"
			courtNames = make([]string, input.CourtCount)
		}

		settings := domain.Settings{
			TeamSize:     input.TeamSize,
			GameDuration: input.GameDuration,
		}
		session, outcome, err := scheduler.Create(input.Name, settings, courtNames, nowFunc, newID)
		if err != nil {
			return domain.SessionState{}, fmt.Errorf("failed to create session: %w", err)
		}

		state := session.Snapshot()

		// The session must be durable before it is cached or audited;
		// audit entries reference it.
		persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		err = repo.Create(persistCtx, state)
		if err != nil {
			// NOTE: SessionRepository implementations handle their own error reporting
			return domain.SessionState{}, fmt.Errorf("failed to persist new session: %w", err)
		}

		err = sink.Record(persistCtx, session.ID(), outcome.Audit)
		if err != nil {
			// NOTE: Sink implementations handle their own error reporting
			logging.FromContext(ctx).Error("Failed to record audit entry", "error", err.Error())
		}

		_, _, err = cache.GetOrCreate(ctx, sessions, session.ID(), func() (*scheduler.Session, error) {
			return session, nil
		})
		if err != nil {
			return domain.SessionState{}, fmt.Errorf("failed to cache new session: %w", err)
		}

		return state, nil
	}
}

type GetSession func(ctx context.Context, sessionID string) (domain.SessionState, error)

func BuildGetSession(resolve ResolveSession) GetSession {
	return func(ctx context.Context, sessionID string) (domain.SessionState, error) {
		session, err := resolve(ctx, sessionID)
		if err != nil {
			return domain.SessionState{}, err
		}
		return session.Snapshot(), nil
	}
}

type ListSessions func(ctx context.Context) ([]domain.SessionInfo, error)

func BuildListSessions(repo sessionrepository.SessionRepository) ListSessions {
	return func(ctx context.Context) ([]domain.SessionInfo, error) {
		infos, err := repo.List(ctx)
		if err != nil {
			// NOTE: SessionRepository implementations handle their own error reporting
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		return infos, nil
	}
}

type GetAuditLog func(ctx context.Context, sessionID string, limit int) ([]domain.AuditEntry, error)

func BuildGetAuditLog(store auditlog.Store) GetAuditLog {
	return func(ctx context.Context, sessionID string, limit int) ([]domain.AuditEntry, error) {
		entries, err := store.Log(ctx, sessionID, limit)
		if err != nil {
			// NOTE: Store implementations handle their own error reporting
			return nil, fmt.Errorf("failed to read audit log: %w", err)
		}
		return entries, nil
	}
}
