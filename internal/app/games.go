package app

import (
	"context"
	"fmt"

	"github.com/openplaylab/courtflow/internal/adapters/auditlog"
	"github.com/openplaylab/courtflow/internal/adapters/sessionrepository"
	"github.com/openplaylab/courtflow/internal/domain"
	"github.com/openplaylab/courtflow/internal/scheduler"
)

type StartGame func(ctx context.Context, sessionID string, teamID string) (scheduler.Placement, error)

func BuildStartGame(resolve ResolveSession, repo sessionrepository.SessionRepository, sink auditlog.Sink) StartGame {
	return func(ctx context.Context, sessionID string, teamID string) (scheduler.Placement, error) {
		session, err := resolve(ctx, sessionID)
		if err != nil {
			return scheduler.Placement{}, err
		}

		placement, outcome, err := session.StartGame(teamID)
		if err != nil {
			return scheduler.Placement{}, fmt.Errorf("failed to start game: %w", err)
		}

		err = persistOutcome(ctx, repo, sink, sessionID, outcome)
		if err != nil {
			return scheduler.Placement{}, err
		}

		return placement, nil
	}
}

type EndGame func(ctx context.Context, sessionID string, courtID string) (scheduler.Placement, error)

func BuildEndGame(resolve ResolveSession, repo sessionrepository.SessionRepository, sink auditlog.Sink) EndGame {
	return func(ctx context.Context, sessionID string, courtID string) (scheduler.Placement, error) {
		session, err := resolve(ctx, sessionID)
		if err != nil {
			return scheduler.Placement{}, err
		}

		placement, outcome, err := session.EndGame(courtID)
		if err != nil {
			return scheduler.Placement{}, fmt.Errorf("failed to end game: %w", err)
		}

		err = persistOutcome(ctx, repo, sink, sessionID, outcome)
		if err != nil {
			return scheduler.Placement{}, err
		}

		return placement, nil
	}
}

type ToggleTimer func(ctx context.Context, sessionID string, courtID string) (domain.Court, error)

func BuildToggleTimer(resolve ResolveSession, repo sessionrepository.SessionRepository, sink auditlog.Sink) ToggleTimer {
	return func(ctx context.Context, sessionID string, courtID string) (domain.Court, error) {
		session, err := resolve(ctx, sessionID)
		if err != nil {
			return domain.Court{}, err
		}

		court, outcome, err := session.ToggleTimer(courtID)
		if err != nil {
			return domain.Court{}, fmt.Errorf("failed to toggle timer: %w", err)
		}

		err = persistOutcome(ctx, repo, sink, sessionID, outcome)
		if err != nil {
			return domain.Court{}, err
		}

		return court, nil
	}
}
