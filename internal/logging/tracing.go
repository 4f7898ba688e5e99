package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Create a slog.Handler that stamps log records with the active trace/span so
// log lines can be joined with traces in the backend
//
// NOTE: Requires the use of the *Context slog methods to get the tracing info
func NewTraceCorrelationLogHandler(baseHandler slog.Handler) *traceCorrelationLogHandler {
	return &traceCorrelationLogHandler{base: baseHandler}
}

type traceCorrelationLogHandler struct {
	base slog.Handler
}

func (h *traceCorrelationLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *traceCorrelationLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("traceID", sc.TraceID().String()),
			slog.String("spanID", sc.SpanID().String()),
			slog.Bool("traceSampled", sc.TraceFlags().IsSampled()),
		)
	}
	return h.base.Handle(ctx, r)
}

func (h *traceCorrelationLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewTraceCorrelationLogHandler(h.base.WithAttrs(attrs))
}

func (h *traceCorrelationLogHandler) WithGroup(name string) slog.Handler {
	return NewTraceCorrelationLogHandler(h.base.WithGroup(name))
}

// Type assertion
var _ slog.Handler = (*traceCorrelationLogHandler)(nil)
