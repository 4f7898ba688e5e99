package app

import (
	"context"

	"github.com/openplaylab/courtflow/internal/adapters/auditlog"
	"github.com/openplaylab/courtflow/internal/adapters/sessionrepository"
)

// ResetSession clears all teams, frees all courts and returns queued and
// playing players to the waiting pool. Players and their stats are kept.
type ResetSession func(ctx context.Context, sessionID string) error

func BuildResetSession(resolve ResolveSession, repo sessionrepository.SessionRepository, sink auditlog.Sink) ResetSession {
	return func(ctx context.Context, sessionID string) error {
		session, err := resolve(ctx, sessionID)
		if err != nil {
			return err
		}

		outcome := session.Reset()

		return persistOutcome(ctx, repo, sink, sessionID, outcome)
	}
}

// ResetStats zeroes every player's game count, teammate history and last game
// end. Team and court state is untouched.
type ResetStats func(ctx context.Context, sessionID string) error

func BuildResetStats(resolve ResolveSession, repo sessionrepository.SessionRepository, sink auditlog.Sink) ResetStats {
	return func(ctx context.Context, sessionID string) error {
		session, err := resolve(ctx, sessionID)
		if err != nil {
			return err
		}

		outcome := session.ResetStats()

		return persistOutcome(ctx, repo, sink, sessionID, outcome)
	}
}
