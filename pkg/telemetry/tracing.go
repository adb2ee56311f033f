package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for Kayak drivers.
const defaultTracerName = "kayak"

// TracerConfig configures frame tracing.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "kayak").
	TracerName string

	// Provider supplies the tracer. If nil, the global provider is used.
	Provider trace.TracerProvider

	// Attributes are added to every frame span.
	Attributes []attribute.KeyValue
}

// TracerOption configures frame tracing.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracerOption {
	return func(c *TracerConfig) {
		c.Provider = tp
	}
}

// WithAttributes adds constant attributes to every frame span.
func WithAttributes(attrs ...attribute.KeyValue) TracerOption {
	return func(c *TracerConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// Tracer starts one span per frame.
type Tracer struct {
	tracer trace.Tracer
	attrs  []attribute.KeyValue
}

// NewTracer creates a frame tracer.
func NewTracer(opts ...TracerOption) *Tracer {
	config := TracerConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerName == "" {
		config.TracerName = defaultTracerName
	}

	var tracer trace.Tracer
	if config.Provider != nil {
		tracer = config.Provider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Tracer{tracer: tracer, attrs: config.Attributes}
}

// FrameSpan is an in-flight frame span.
type FrameSpan struct {
	span trace.Span
}

// StartFrame starts a span for frame number seq.
// A nil Tracer returns ctx unchanged and a no-op span.
func (t *Tracer) StartFrame(ctx context.Context, seq uint64) (context.Context, *FrameSpan) {
	if t == nil {
		return ctx, &FrameSpan{}
	}

	attrs := make([]attribute.KeyValue, 0, len(t.attrs)+1)
	attrs = append(attrs, t.attrs...)
	attrs = append(attrs, attribute.Int64("kayak.frame", int64(seq)))

	spanCtx, span := t.tracer.Start(ctx, "kayak.frame",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return spanCtx, &FrameSpan{span: span}
}

// End records the frame outcome and ends the span.
func (s *FrameSpan) End(sample FrameSample) {
	if s == nil || s.span == nil {
		return
	}

	s.span.SetAttributes(
		attribute.Int("kayak.dirty_nodes", sample.Dirty),
		attribute.Int("kayak.rendered", sample.Rendered),
		attribute.Int("kayak.changes.insert", sample.Inserted),
		attribute.Int("kayak.changes.delete", sample.Removed),
		attribute.Int("kayak.changes.update", sample.Updated),
		attribute.Int("kayak.tree_nodes", sample.TreeSize),
		attribute.Int64("kayak.duration_us", sample.Duration.Microseconds()),
	)

	if sample.Err != nil {
		s.span.RecordError(sample.Err)
		s.span.SetStatus(codes.Error, sample.Err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}

// Event adds a named event to the frame span.
func (s *FrameSpan) Event(name string, attrs ...attribute.KeyValue) {
	if s == nil || s.span == nil {
		return
	}
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}
