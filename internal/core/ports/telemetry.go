package ports

import (
	"context"
	"io"

	"go.trai.ch/recipe/internal/core/domain"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	// EmitPlan signals the flattened graph that is about to run.
	EmitPlan(ctx context.Context, plan domain.Plan)
}

// Span represents a unit of work.
type Span interface {
	io.Writer
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// SpanConfig holds configuration for a starting span.
type SpanConfig struct {
	Attributes map[string]any
}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)

// WithAttribute sets an attribute at span start, before any processor sees the span.
func WithAttribute(key string, value any) SpanOption {
	return func(c *SpanConfig) {
		if c.Attributes == nil {
			c.Attributes = make(map[string]any)
		}
		c.Attributes[key] = value
	}
}

// NewSpanConfig applies opts to an empty SpanConfig.
func NewSpanConfig(opts ...SpanOption) SpanConfig {
	var cfg SpanConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

const (
	// AttrNodeKind is the span attribute holding the graph node kind.
	AttrNodeKind = "recipe.kind"
	// AttrNodePath is the span attribute holding the graph path of the node.
	AttrNodePath = "recipe.path"
)
