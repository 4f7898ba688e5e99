package auditlog

import (
	"context"

	"github.com/openplaylab/courtflow/internal/domain"
	"github.com/openplaylab/courtflow/internal/logging"
)

// SlogSink writes entries to the request-scoped logger instead of a store.
// Used in development to see the command stream without a database.
type SlogSink struct{}

func NewSlogSink() *SlogSink {
	return &SlogSink{}
}

func (s *SlogSink) Record(ctx context.Context, sessionID string, entry domain.AuditEntry) error {
	logging.FromContext(ctx).Info(
		"Audit entry",
		"sessionID", sessionID,
		"auditID", entry.ID,
		"type", string(entry.Type),
		"payload", entry.Payload,
	)
	return nil
}
