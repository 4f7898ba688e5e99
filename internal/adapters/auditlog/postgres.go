package auditlog

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/openplaylab/courtflow/internal/domain"
	"github.com/openplaylab/courtflow/internal/reporting"
	"github.com/openplaylab/courtflow/internal/strutils"
)

type Postgres struct {
	db     *sqlx.DB
	schema string

	tracer trace.Tracer
}

func NewPostgres(db *sqlx.DB, schema string) *Postgres {
	tracer := otel.Tracer("courtflow/auditlog/postgres")

	return &Postgres{
		db:     db,
		schema: schema,

		tracer: tracer,
	}
}

type dbAuditEntry struct {
	ID        string    `db:"id"`
	Type      string    `db:"type"`
	Payload   []byte    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}

func (p *Postgres) Record(ctx context.Context, sessionID string, entry domain.AuditEntry) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.Record")
	defer span.End()

	if !strutils.UUIDIsNormalized(sessionID) {
		err := fmt.Errorf("session id is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"sessionID": sessionID,
		})
		return err
	}
	if !strutils.UUIDIsNormalized(entry.ID) {
		err := fmt.Errorf("audit entry id is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"sessionID": sessionID,
			"auditID":   entry.ID,
		})
		return err
	}

	payload, err := encodePayload(entry)
	if err != nil {
		err := fmt.Errorf("failed to encode audit payload: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"sessionID": sessionID,
			"auditID":   entry.ID,
			"auditType": string(entry.Type),
		})
		return err
	}

	_, err = p.db.ExecContext(
		ctx,
		fmt.Sprintf(`INSERT INTO %s.audit_log
		(id, session_id, type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
			pq.QuoteIdentifier(p.schema),
		),
		entry.ID,
		sessionID,
		string(entry.Type),
		payload,
		entry.Timestamp,
	)
	if err != nil {
		err := fmt.Errorf("failed to insert audit entry: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"sessionID": sessionID,
			"auditID":   entry.ID,
			"auditType": string(entry.Type),
		})
		return err
	}

	return nil
}

func (p *Postgres) Log(ctx context.Context, sessionID string, limit int) ([]domain.AuditEntry, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.Log")
	defer span.End()

	if !strutils.UUIDIsNormalized(sessionID) {
		err := fmt.Errorf("session id is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"sessionID": sessionID,
		})
		return nil, err
	}

	// Newest entries win when a limit is set; the slice is flipped back to
	// recorded order below.
	query := fmt.Sprintf(`SELECT id, type, payload, created_at
	FROM %s.audit_log
	WHERE session_id = $1
	ORDER BY recorded_seq DESC`,
		pq.QuoteIdentifier(p.schema),
	)
	args := []any{sessionID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	var rows []dbAuditEntry
	err := p.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		err := fmt.Errorf("failed to select audit entries: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"sessionID": sessionID,
			"limit":     strconv.Itoa(limit),
		})
		return nil, err
	}

	entries := make([]domain.AuditEntry, 0, len(rows))
	for _, row := range rows {
		payload, err := decodePayload(domain.AuditType(row.Type), row.Payload)
		if err != nil {
			err := fmt.Errorf("failed to decode audit payload: %w", err)
			reporting.Report(ctx, err, map[string]string{
				"sessionID": sessionID,
				"auditID":   row.ID,
				"auditType": row.Type,
			})
			return nil, err
		}
		entries = append(entries, domain.AuditEntry{
			ID:        row.ID,
			Type:      domain.AuditType(row.Type),
			Payload:   payload,
			Timestamp: row.CreatedAt,
		})
	}
	slices.Reverse(entries)

	return entries, nil
}
