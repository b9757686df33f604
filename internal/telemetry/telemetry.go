// Package telemetry records submission and verification metrics.
package telemetry

import (
	"context"
	"time"
)

// Provider defines the interface for telemetry providers
type Provider interface {
	// Tracer operations
	StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)

	// Metrics operations
	RecordSubmission(ctx context.Context, outcome string, urlCount int, duration time.Duration)
	RecordVerification(ctx context.Context, statusCode int)

	// ObserveQueueDepth registers a callback reporting pending async jobs
	ObserveQueueDepth(fn func() int) error

	// Lifecycle
	Shutdown(ctx context.Context) error
}

// Span represents a trace span
type Span interface {
	End()
	SetAttributes(attrs ...Attribute)
	RecordError(err error)
	AddEvent(name string, attrs ...Attribute)
}

// Attribute represents a key-value attribute
type Attribute struct {
	Key   string
	Value interface{}
}

// String creates a string attribute
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an int attribute
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a bool attribute
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}
