package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor and forwards task spans to a Renderer.
// Spans of series, parallel and aggregate nodes are not forwarded.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a new Bridge.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil || !isTaskSpan(s) {
		return
	}
	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	path := stringAttribute(s.Attributes(), ports.AttrNodePath)
	if path == "" {
		path = s.Name()
	}
	b.renderer.OnTaskStart(sc.SpanID().String(), path, s.Name(), s.StartTime())
}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil || !isTaskSpan(s) {
		return
	}
	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var err error
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "task failed"
		}
		err = errors.New(desc)
	}
	b.renderer.OnTaskComplete(sc.SpanID().String(), s.EndTime(), err)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

func isTaskSpan(s sdktrace.ReadOnlySpan) bool {
	return stringAttribute(s.Attributes(), ports.AttrNodeKind) == string(domain.KindTask)
}
