package auditlog

import (
	"context"
	"errors"

	"github.com/openplaylab/courtflow/internal/domain"
)

// Fanout forwards each entry to every sink. A failing sink does not stop the
// others; the errors are joined.
type Fanout struct {
	sinks []Sink
}

func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Record(ctx context.Context, sessionID string, entry domain.AuditEntry) error {
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.Record(ctx, sessionID, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
