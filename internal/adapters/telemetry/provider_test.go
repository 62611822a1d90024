package telemetry_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/recipe/internal/adapters/telemetry"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/recipe/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr
}

func attrMap(attrs []attribute.KeyValue) map[string]any {
	out := make(map[string]any, len(attrs))
	for _, a := range attrs {
		out[string(a.Key)] = a.Value.AsInterface()
	}
	return out
}

func TestOTelTracer_StartAttributes(t *testing.T) {
	sr := setupRecorder(t)
	tracer := telemetry.NewOTelTracer("test")

	_, span := tracer.Start(context.Background(), "css",
		ports.WithAttribute(ports.AttrNodeKind, "task"),
		ports.WithAttribute(ports.AttrNodePath, "publish/1:css"),
	)
	span.End()

	require.Len(t, sr.Ended(), 1)
	attrs := attrMap(sr.Ended()[0].Attributes())
	assert.Equal(t, "task", attrs[ports.AttrNodeKind])
	assert.Equal(t, "publish/1:css", attrs[ports.AttrNodePath])
}

func TestOTelSpan_SetAttribute(t *testing.T) {
	sr := setupRecorder(t)
	tracer := telemetry.NewOTelTracer("test")

	_, span := tracer.Start(context.Background(), "attr-test")
	span.SetAttribute("str", "val")
	span.SetAttribute("int", 123)
	span.SetAttribute("int64", int64(456))
	span.SetAttribute("float", 3.14)
	span.SetAttribute("bool", true)
	span.SetAttribute("slice", []string{"a", "b"})
	span.SetAttribute("unknown", struct{}{})
	span.End()

	require.Len(t, sr.Ended(), 1)
	attrs := attrMap(sr.Ended()[0].Attributes())
	assert.Equal(t, "val", attrs["str"])
	assert.Equal(t, int64(123), attrs["int"])
	assert.Equal(t, int64(456), attrs["int64"])
	assert.InEpsilon(t, 3.14, attrs["float"], 0.001)
	assert.Equal(t, true, attrs["bool"])
	assert.Equal(t, []string{"a", "b"}, attrs["slice"])
	assert.Equal(t, "{}", attrs["unknown"])
}

func TestOTelSpan_RecordError(t *testing.T) {
	sr := setupRecorder(t)
	tracer := telemetry.NewOTelTracer("test")

	_, span := tracer.Start(context.Background(), "failing")
	span.RecordError(errors.New("exit status 2"))
	span.End()

	require.Len(t, sr.Ended(), 1)
	status := sr.Ended()[0].Status()
	assert.Equal(t, codes.Error, status.Code)
	assert.Equal(t, "exit status 2", status.Description)
}

func TestOTelSpan_WriteWithoutRenderer(t *testing.T) {
	sr := setupRecorder(t)
	tracer := telemetry.NewOTelTracer("test")

	_, span := tracer.Start(context.Background(), "log-test",
		ports.WithAttribute(ports.AttrNodeKind, "task"))
	n, err := span.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	span.End()

	require.Len(t, sr.Ended(), 1)
	events := sr.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "log", events[0].Name)
	assert.Equal(t, "hello", events[0].Attributes[0].Value.AsString())
}

func TestOTelSpan_WriteWithRenderer(t *testing.T) {
	setupRecorder(t)
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	var mu sync.Mutex
	var logged []byte
	renderer.EXPECT().OnTaskLog(gomock.Any(), gomock.Any()).Do(func(_ string, data []byte) {
		mu.Lock()
		defer mu.Unlock()
		logged = append(logged, data...)
	}).MinTimes(1)

	tracer := telemetry.NewOTelTracer("test").WithRenderer(renderer)
	_, span := tracer.Start(context.Background(), "css",
		ports.WithAttribute(ports.AttrNodeKind, "task"))
	_, err := span.Write([]byte("compiled scss\n"))
	require.NoError(t, err)
	span.End()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "compiled scss\n", string(logged))
}

func TestOTelSpan_CompositeSpansAreNotStreamed(t *testing.T) {
	sr := setupRecorder(t)
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	tracer := telemetry.NewOTelTracer("test").WithRenderer(renderer)
	_, span := tracer.Start(context.Background(), "publish",
		ports.WithAttribute(ports.AttrNodeKind, "series"))
	_, err := span.Write([]byte("ignored by renderer"))
	require.NoError(t, err)
	span.End()

	require.Len(t, sr.Ended(), 1)
	assert.Len(t, sr.Ended()[0].Events(), 1)
}

func TestOTelTracer_EmitPlan(t *testing.T) {
	sr := setupRecorder(t)
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	plan := domain.Plan{
		Aggregate: "publish",
		Steps: []domain.PlanStep{
			{Name: "publish", Path: "publish", Kind: domain.KindAggregate},
			{Name: "css", Path: "publish/1:css", Depth: 1, Kind: domain.KindTask},
		},
	}
	renderer.EXPECT().OnPlanEmit(plan).Times(2)

	tracer := telemetry.NewOTelTracer("test").WithRenderer(renderer)

	tracer.EmitPlan(context.Background(), plan)
	assert.Empty(t, sr.Ended())

	ctx, root := otel.Tracer("test").Start(context.Background(), "root")
	tracer.EmitPlan(ctx, plan)
	root.End()

	require.Len(t, sr.Ended(), 1)
	events := sr.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "plan_emitted", events[0].Name)
	assert.Equal(t, []string{"publish/1:css"}, attrMap(events[0].Attributes)["tasks"])
}
