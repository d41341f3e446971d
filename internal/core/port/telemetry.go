package port

import (
	"context"
	"time"
)

// Span is the minimal tracing surface repositories need, so they can
// emit spans without importing a tracing backend.
type Span interface {
	End()
	SetAttributes(attrs map[string]any)
	SetStatus(code, message string)
	RecordError(err error)
}

// Telemetry lets the domain emit telemetry events without knowing the
// implementation.
type Telemetry interface {
	StartRepositorySpan(ctx context.Context, operation, entity string, attrs map[string]any) (context.Context, Span)
	StartServiceSpan(ctx context.Context, service, operation, owner string, attrs map[string]any) (context.Context, Span)

	RecordRepositoryOperation(ctx context.Context, operation, entity string, duration time.Duration, err error)
	RecordRepositoryQuery(ctx context.Context, operation, entity, query string, args []any)

	RecordBusinessEvent(ctx context.Context, event, entity, entityID, owner string, metadata map[string]any)

	RecordError(ctx context.Context, operation string, err error, metadata map[string]any)
}
