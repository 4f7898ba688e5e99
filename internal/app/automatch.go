package app

import (
	"context"
	"fmt"

	"github.com/openplaylab/courtflow/internal/adapters/auditlog"
	"github.com/openplaylab/courtflow/internal/adapters/sessionrepository"
	"github.com/openplaylab/courtflow/internal/domain"
)

// AutoMatch forms as many full teams as the eligible pool allows and returns
// them in formation order.
type AutoMatch func(ctx context.Context, sessionID string) ([]domain.Team, error)

func BuildAutoMatch(resolve ResolveSession, repo sessionrepository.SessionRepository, sink auditlog.Sink) AutoMatch {
	return func(ctx context.Context, sessionID string) ([]domain.Team, error) {
		session, err := resolve(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		teams, outcome, err := session.AutoMatch()
		if err != nil {
			return nil, fmt.Errorf("failed to match teams: %w", err)
		}

		err = persistOutcome(ctx, repo, sink, sessionID, outcome)
		if err != nil {
			return nil, err
		}

		return teams, nil
	}
}
