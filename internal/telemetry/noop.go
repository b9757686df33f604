package telemetry

import (
	"context"
	"time"
)

// NoOpProvider is a telemetry provider that does nothing.
// It is the default when OpenTelemetry is not enabled.
type NoOpProvider struct{}

// NewNoOp creates a new no-op telemetry provider
func NewNoOp() *NoOpProvider {
	return &NoOpProvider{}
}

func (n *NoOpProvider) StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	return ctx, &NoOpSpan{}
}

func (n *NoOpProvider) RecordSubmission(ctx context.Context, outcome string, urlCount int, duration time.Duration) {
}

func (n *NoOpProvider) RecordVerification(ctx context.Context, statusCode int) {}

func (n *NoOpProvider) ObserveQueueDepth(fn func() int) error { return nil }

func (n *NoOpProvider) Shutdown(ctx context.Context) error { return nil }

// NoOpSpan is a span that does nothing
type NoOpSpan struct{}

func (n *NoOpSpan) End()                                     {}
func (n *NoOpSpan) SetAttributes(attrs ...Attribute)         {}
func (n *NoOpSpan) RecordError(err error)                    {}
func (n *NoOpSpan) AddEvent(name string, attrs ...Attribute) {}
