package app

import (
	"context"
	"fmt"

	"github.com/openplaylab/courtflow/internal/adapters/auditlog"
	"github.com/openplaylab/courtflow/internal/adapters/sessionrepository"
)

type SwapPlayers func(ctx context.Context, sessionID string, playerAID, playerBID string) error

func BuildSwapPlayers(resolve ResolveSession, repo sessionrepository.SessionRepository, sink auditlog.Sink) SwapPlayers {
	return func(ctx context.Context, sessionID string, playerAID, playerBID string) error {
		session, err := resolve(ctx, sessionID)
		if err != nil {
			return err
		}

		outcome, err := session.SwapPlayers(playerAID, playerBID)
		if err != nil {
			return fmt.Errorf("failed to swap players: %w", err)
		}

		return persistOutcome(ctx, repo, sink, sessionID, outcome)
	}
}

type DeleteTeam func(ctx context.Context, sessionID string, teamID string) error

func BuildDeleteTeam(resolve ResolveSession, repo sessionrepository.SessionRepository, sink auditlog.Sink) DeleteTeam {
	return func(ctx context.Context, sessionID string, teamID string) error {
		session, err := resolve(ctx, sessionID)
		if err != nil {
			return err
		}

		outcome, err := session.DeleteTeam(teamID)
		if err != nil {
			return fmt.Errorf("failed to delete team: %w", err)
		}

		return persistOutcome(ctx, repo, sink, sessionID, outcome)
	}
}
