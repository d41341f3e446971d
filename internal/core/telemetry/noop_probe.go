package telemetry

import (
	"context"
	"time"

	"noteflow/internal/core/port"
)

// NoOpProbe implements Telemetry with no operations - useful for
// testing or when telemetry is disabled.
type NoOpProbe struct{}

func NewNoOpProbe() port.Telemetry {
	return &NoOpProbe{}
}

type NoOpSpan struct{}

func (s *NoOpSpan) End()                                  {}
func (s *NoOpSpan) SetAttributes(attrs map[string]any)    {}
func (s *NoOpSpan) SetStatus(code string, message string) {}
func (s *NoOpSpan) RecordError(err error)                 {}

func (p *NoOpProbe) StartRepositorySpan(ctx context.Context, operation, entity string, attrs map[string]any) (context.Context, port.Span) {
	return ctx, &NoOpSpan{}
}

func (p *NoOpProbe) StartServiceSpan(ctx context.Context, service, operation, owner string, attrs map[string]any) (context.Context, port.Span) {
	return ctx, &NoOpSpan{}
}

func (p *NoOpProbe) RecordRepositoryOperation(ctx context.Context, operation, entity string, duration time.Duration, err error) {
}

func (p *NoOpProbe) RecordRepositoryQuery(ctx context.Context, operation, entity, query string, args []any) {
}

func (p *NoOpProbe) RecordBusinessEvent(ctx context.Context, event, entity, entityID, owner string, metadata map[string]any) {
}

func (p *NoOpProbe) RecordError(ctx context.Context, operation string, err error, metadata map[string]any) {
}
