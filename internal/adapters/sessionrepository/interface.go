package sessionrepository

import (
	"context"

	"github.com/openplaylab/courtflow/internal/domain"
)

// SessionRepository makes session state durable. The hydrated in-memory
// engine stays authoritative; implementations persist the initial state and
// the per-command deltas it emits, and serve full state for rehydration.
type SessionRepository interface {
	Create(ctx context.Context, state domain.SessionState) error
	Load(ctx context.Context, sessionID string) (domain.SessionState, error)
	SaveDelta(ctx context.Context, sessionID string, delta domain.Delta) error
	List(ctx context.Context) ([]domain.SessionInfo, error)
}
