package app

import (
	"context"
	"fmt"
	"time"

	"github.com/openplaylab/courtflow/internal/adapters/auditlog"
	"github.com/openplaylab/courtflow/internal/adapters/cache"
	"github.com/openplaylab/courtflow/internal/adapters/sessionrepository"
	"github.com/openplaylab/courtflow/internal/logging"
	"github.com/openplaylab/courtflow/internal/reporting"
	"github.com/openplaylab/courtflow/internal/scheduler"
	"github.com/openplaylab/courtflow/internal/strutils"
)

// ResolveSession yields the live engine handle for a session, hydrating it
// from the repository on a cache miss. Every caller of the same id gets the
// same handle, so all commands for a session serialize on its mutex.
type ResolveSession func(ctx context.Context, sessionID string) (*scheduler.Session, error)

func BuildResolveSession(
	sessions cache.SessionCache,
	repo sessionrepository.SessionRepository,
	nowFunc func() time.Time,
	newID func() string,
) ResolveSession {
	return func(ctx context.Context, sessionID string) (*scheduler.Session, error) {
		if !strutils.UUIDIsNormalized(sessionID) {
			logging.FromContext(ctx).Error("Session ID is not normalized", "sessionID", sessionID)
			err := fmt.Errorf("session id is not normalized")
			reporting.Report(ctx, err)
			return nil, err
		}

		session, _, err := cache.GetOrCreate(ctx, sessions, sessionID, func() (*scheduler.Session, error) {
			state, err := repo.Load(ctx, sessionID)
			if err != nil {
				// NOTE: SessionRepository implementations handle their own error reporting
				return nil, fmt.Errorf("could not load session: %w", err)
			}
			return scheduler.New(state, nowFunc, newID), nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to cache.GetOrCreate session: %w", err)
		}

		return session, nil
	}
}

// persistOutcome forwards the audit entry to the sink and saves the delta.
// The engine has already applied the command and stays authoritative: a sink
// failure is logged but never surfaced, a failed save surfaces to the caller
// without rolling the command back.
func persistOutcome(ctx context.Context, repo sessionrepository.SessionRepository, sink auditlog.Sink, sessionID string, outcome scheduler.Outcome) error {
	// Ignore cancellations from the request context; the command has already
	// been applied, so the writes should proceed regardless.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err := sink.Record(persistCtx, sessionID, outcome.Audit)
	if err != nil {
		// NOTE: Sink implementations handle their own error reporting
		logging.FromContext(ctx).Error("Failed to record audit entry", "error", err.Error())
	}

	err = repo.SaveDelta(persistCtx, sessionID, outcome.Delta)
	if err != nil {
		// NOTE: SessionRepository implementations handle their own error reporting
		return fmt.Errorf("failed to save session delta: %w", err)
	}

	return nil
}
