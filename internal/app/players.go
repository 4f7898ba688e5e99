package app

import (
	"context"
	"fmt"

	"github.com/openplaylab/courtflow/internal/adapters/auditlog"
	"github.com/openplaylab/courtflow/internal/adapters/sessionrepository"
	"github.com/openplaylab/courtflow/internal/domain"
)

type AddPlayer func(ctx context.Context, sessionID string, name, gender, rank string) (domain.Player, error)

func BuildAddPlayer(resolve ResolveSession, repo sessionrepository.SessionRepository, sink auditlog.Sink) AddPlayer {
	return func(ctx context.Context, sessionID string, name, gender, rank string) (domain.Player, error) {
		session, err := resolve(ctx, sessionID)
		if err != nil {
			return domain.Player{}, err
		}

		player, outcome, err := session.AddPlayer(name, gender, rank)
		if err != nil {
			return domain.Player{}, fmt.Errorf("failed to add player: %w", err)
		}

		err = persistOutcome(ctx, repo, sink, sessionID, outcome)
		if err != nil {
			return domain.Player{}, err
		}

		return player, nil
	}
}

// UpdatePlayer returns the updated player, or nil when the id matched no
// registered player and the update was recorded as a no-op.
type UpdatePlayer func(ctx context.Context, sessionID string, playerID string, update domain.PlayerUpdate) (*domain.Player, error)

func BuildUpdatePlayer(resolve ResolveSession, repo sessionrepository.SessionRepository, sink auditlog.Sink) UpdatePlayer {
	return func(ctx context.Context, sessionID string, playerID string, update domain.PlayerUpdate) (*domain.Player, error) {
		session, err := resolve(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		player, outcome, err := session.UpdatePlayer(playerID, update)
		if err != nil {
			return nil, fmt.Errorf("failed to update player: %w", err)
		}

		err = persistOutcome(ctx, repo, sink, sessionID, outcome)
		if err != nil {
			return nil, err
		}

		return player, nil
	}
}

type DeletePlayer func(ctx context.Context, sessionID string, playerID string) error

func BuildDeletePlayer(resolve ResolveSession, repo sessionrepository.SessionRepository, sink auditlog.Sink) DeletePlayer {
	return func(ctx context.Context, sessionID string, playerID string) error {
		session, err := resolve(ctx, sessionID)
		if err != nil {
			return err
		}

		outcome, err := session.DeletePlayer(playerID)
		if err != nil {
			return fmt.Errorf("failed to delete player: %w", err)
		}

		return persistOutcome(ctx, repo, sink, sessionID, outcome)
	}
}

type AdjustGameCount func(ctx context.Context, sessionID string, playerID string, delta int) (domain.Player, error)

func BuildAdjustGameCount(resolve ResolveSession, repo sessionrepository.SessionRepository, sink auditlog.Sink) AdjustGameCount {
	return func(ctx context.Context, sessionID string, playerID string, delta int) (domain.Player, error) {
		session, err := resolve(ctx, sessionID)
		if err != nil {
			return domain.Player{}, err
		}

		player, outcome, err := session.AdjustGameCount(playerID, delta)
		if err != nil {
			return domain.Player{}, fmt.Errorf("failed to adjust game count: %w", err)
		}

		err = persistOutcome(ctx, repo, sink, sessionID, outcome)
		if err != nil {
			return domain.Player{}, err
		}

		return player, nil
	}
}
