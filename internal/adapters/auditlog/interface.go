package auditlog

import (
	"context"

	"github.com/openplaylab/courtflow/internal/domain"
)

// Sink receives one entry per successfully applied command. Entries are
// immutable once recorded; implementations must not modify them.
type Sink interface {
	Record(ctx context.Context, sessionID string, entry domain.AuditEntry) error
}

// Store is a sink whose entries can be read back for display. The scheduling
// core never reads the log; only the display endpoint does.
type Store interface {
	Sink

	// Log returns the session's entries in the order they were recorded.
	// A positive limit keeps only the most recent entries.
	Log(ctx context.Context, sessionID string, limit int) ([]domain.AuditEntry, error)
}
