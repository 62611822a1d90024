package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
)

// OTelTracer is a concrete implementation of ports.Tracer using OpenTelemetry.
type OTelTracer struct {
	tracer trace.Tracer

	mu       sync.RWMutex
	renderer ports.Renderer
}

// NewOTelTracer creates a new OTelTracer backed by the global tracer provider.
func NewOTelTracer(name string) *OTelTracer {
	return &OTelTracer{tracer: otel.Tracer(name)}
}

// WithRenderer streams task output and the plan to r.
func (t *OTelTracer) WithRenderer(r ports.Renderer) *OTelTracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renderer = r
	return t
}

func (t *OTelTracer) currentRenderer() ports.Renderer {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.renderer
}

// Start creates a new span. Attributes given as options are set before any
// span processor observes the span.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := ports.NewSpanConfig(opts...)
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(toAttributes(cfg.Attributes)...))

	var output *Chunker
	renderer := t.currentRenderer()
	if renderer != nil && cfg.Attributes[ports.AttrNodeKind] == string(domain.KindTask) {
		spanID := span.SpanContext().SpanID().String()
		output = NewChunker(func(data []byte) {
			renderer.OnTaskLog(spanID, data)
		})
	}

	return ctx, &OTelSpan{span: span, output: output}
}

// EmitPlan records the plan on the current span and hands it to the renderer.
func (t *OTelTracer) EmitPlan(ctx context.Context, plan domain.Plan) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		tasks := make([]string, 0, len(plan.Steps))
		for _, step := range plan.Tasks() {
			tasks = append(tasks, step.Path)
		}
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.String("aggregate", plan.Aggregate),
			attribute.StringSlice("tasks", tasks),
		))
	}

	if renderer := t.currentRenderer(); renderer != nil {
		renderer.OnPlanEmit(plan)
	}
}

// OTelSpan is a concrete implementation of ports.Span using OpenTelemetry.
type OTelSpan struct {
	span   trace.Span
	output *Chunker
}

// End flushes buffered output and completes the span.
func (s *OTelSpan) End() {
	if s.output != nil {
		_ = s.output.Close()
	}
	s.span.End()
}

// RecordError records err and marks the span as failed.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	s.span.SetAttributes(toAttribute(key, value))
}

// Write forwards task output to the renderer, or records it as a span event
// when no renderer is attached.
func (s *OTelSpan) Write(p []byte) (int, error) {
	if s.output != nil {
		return s.output.Write(p)
	}
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	return len(p), nil
}
