package telemetry

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	meterName  = "indexnow"
	tracerName = "indexnow"
)

// providerIDs tells apart queue depth observations of providers sharing a meter
var providerIDs atomic.Int64

// OTelProvider implements Provider using OpenTelemetry.
// It uses the globally registered tracer and meter providers.
type OTelProvider struct {
	tracer trace.Tracer
	meter  metric.Meter

	submissions          metric.Int64Counter
	submittedURLs        metric.Int64Counter
	submitDuration       metric.Float64Histogram
	verificationRequests metric.Int64Counter
	queueDepth           metric.Int64ObservableGauge

	id         int64
	mu         sync.RWMutex
	depthFuncs []func() int
}

// NewOTel creates a new OpenTelemetry provider
func NewOTel() (*OTelProvider, error) {
	provider := &OTelProvider{
		tracer: otel.Tracer(tracerName),
		meter:  otel.Meter(meterName),
		id:     providerIDs.Add(1),
	}

	if err := provider.initMetrics(); err != nil {
		return nil, err
	}

	return provider, nil
}

func (o *OTelProvider) initMetrics() error {
	var err error

	o.submissions, err = o.meter.Int64Counter(
		"indexnow.submissions",
		metric.WithDescription("Number of submission attempts by outcome"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return err
	}

	o.submittedURLs, err = o.meter.Int64Counter(
		"indexnow.urls.submitted",
		metric.WithDescription("Number of URLs sent to IndexNow"),
		metric.WithUnit("{url}"),
	)
	if err != nil {
		return err
	}

	o.submitDuration, err = o.meter.Float64Histogram(
		"indexnow.submit.duration",
		metric.WithDescription("Duration of submit calls"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	o.verificationRequests, err = o.meter.Int64Counter(
		"indexnow.verification.requests",
		metric.WithDescription("Number of key file requests by status code"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	o.queueDepth, err = o.meter.Int64ObservableGauge(
		"indexnow.queue.depth",
		metric.WithDescription("Number of async submissions waiting for a worker"),
		metric.WithUnit("{job}"),
		metric.WithInt64Callback(func(ctx context.Context, observer metric.Int64Observer) error {
			observer.Observe(int64(o.currentQueueDepth()),
				metric.WithAttributes(attribute.Int64("indexnow.provider", o.id)))
			return nil
		}),
	)
	if err != nil {
		return err
	}

	return nil
}

func (o *OTelProvider) currentQueueDepth() int {
	o.mu.RLock()
	defer o.mu.RUnlock()

	total := 0
	for _, fn := range o.depthFuncs {
		total += fn()
	}
	return total
}

// StartSpan creates a new trace span
func (o *OTelProvider) StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	ctx, otelSpan := o.tracer.Start(ctx, name, trace.WithAttributes(convertAttributes(attrs)...))
	return ctx, &OTelSpan{span: otelSpan}
}

// RecordSubmission records the outcome of a submit call.
// URLs are only counted when a request was actually sent.
func (o *OTelProvider) RecordSubmission(ctx context.Context, outcome string, urlCount int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))

	o.submissions.Add(ctx, 1, attrs)
	o.submitDuration.Record(ctx, float64(duration.Milliseconds()), attrs)

	if urlCount > 0 {
		o.submittedURLs.Add(ctx, int64(urlCount), attrs)
	}
}

// RecordVerification records a key file request
func (o *OTelProvider) RecordVerification(ctx context.Context, statusCode int) {
	o.verificationRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("http.status_code", statusCode),
	))
}

// ObserveQueueDepth adds fn to the queue depth gauge
func (o *OTelProvider) ObserveQueueDepth(fn func() int) error {
	if fn == nil {
		return nil
	}

	o.mu.Lock()
	o.depthFuncs = append(o.depthFuncs, fn)
	o.mu.Unlock()
	return nil
}

// Shutdown shuts down the provider
func (o *OTelProvider) Shutdown(ctx context.Context) error {
	// OTel SDK shutdown is handled globally
	return nil
}

func convertAttributes(attrs []Attribute) []attribute.KeyValue {
	otelAttrs := make([]attribute.KeyValue, len(attrs))
	for i, attr := range attrs {
		otelAttrs[i] = convertAttribute(attr)
	}
	return otelAttrs
}

func convertAttribute(attr Attribute) attribute.KeyValue {
	switch v := attr.Value.(type) {
	case string:
		return attribute.String(attr.Key, v)
	case int:
		return attribute.Int(attr.Key, v)
	case int64:
		return attribute.Int64(attr.Key, v)
	case bool:
		return attribute.Bool(attr.Key, v)
	case float64:
		return attribute.Float64(attr.Key, v)
	default:
		return attribute.String(attr.Key, "")
	}
}

// OTelSpan wraps an OpenTelemetry span
type OTelSpan struct {
	span trace.Span
}

// End completes the span
func (s *OTelSpan) End() {
	s.span.End()
}

// SetAttributes sets attributes on the span
func (s *OTelSpan) SetAttributes(attrs ...Attribute) {
	s.span.SetAttributes(convertAttributes(attrs)...)
}

// RecordError records an error on the span
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

// AddEvent adds an event to the span
func (s *OTelSpan) AddEvent(name string, attrs ...Attribute) {
	s.span.AddEvent(name, trace.WithAttributes(convertAttributes(attrs)...))
}
