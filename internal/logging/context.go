package logging

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

type contextKey string

const traceIDKey contextKey = "trace_id"

// TraceIDField is the log field carrying the trace ID.
const TraceIDField = "trace_id"

// ContextWithTraceID returns a copy of ctx carrying traceID.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceIDFromContext returns the trace ID stored in ctx, or "".
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}

// GetOrGenerateTraceID returns the trace ID in ctx, generating a new ULID
// when none is present.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id := TraceIDFromContext(ctx); id != "" {
		return id
	}
	return ulid.Make().String()
}

// FromContext returns the logger attached to ctx. A disabled logger is
// returned when ctx carries none.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		l := zerolog.Nop()
		return &l
	}
	return zerolog.Ctx(ctx)
}

// TraceHook copies the trace ID from the event's context onto the event.
type TraceHook struct{}

// Run implements zerolog.Hook.
func (TraceHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	if id := TraceIDFromContext(e.GetCtx()); id != "" {
		e.Str(TraceIDField, id)
	}
}
