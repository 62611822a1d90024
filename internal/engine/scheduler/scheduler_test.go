package scheduler_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/recipe/internal/core/ports/mocks"
	"go.trai.ch/recipe/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

type schedulerTestMocks struct {
	tracer *mocks.MockTracer
	span   *mocks.MockSpan
	logger *mocks.MockLogger
}

// setupSchedulerTest creates a scheduler and common mocks.
func setupSchedulerTest(t *testing.T, opts ...scheduler.Option) (*scheduler.Scheduler, schedulerTestMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := schedulerTestMocks{
		tracer: mocks.NewMockTracer(ctrl),
		span:   mocks.NewMockSpan(ctrl),
		logger: mocks.NewMockLogger(ctrl),
	}

	// Default optimistic mocks to reduce noise in specific tests.
	m.span.EXPECT().End().AnyTimes()
	m.span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	m.span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	m.span.EXPECT().Write(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
		return len(p), nil
	}).AnyTimes()

	// Start has variadic signature: Start(ctx, name, ...opts).
	m.tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, m.span
		},
	).AnyTimes()
	m.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

	return scheduler.NewScheduler(m.tracer, m.logger, opts...), m
}

// recorder collects observed task side effects.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// task returns a task that records its name after sleeping for delay.
func (r *recorder) task(name string, delay time.Duration, err error) *domain.Task {
	return domain.NewTask(name, domain.ActionFunc(func(context.Context, io.Writer) error {
		if delay > 0 {
			time.Sleep(delay)
		}
		r.add(name)
		return err
	}))
}

func mustRegister(t *testing.T, reg *domain.Registry, name string, root domain.Node, opts ...domain.AggregateOption) *domain.Aggregate {
	t.Helper()
	agg, err := reg.Register(name, root, opts...)
	require.NoError(t, err)
	return agg
}

func TestScheduler_SeriesStopsAtFirstFailure(t *testing.T) {
	s, _ := setupSchedulerTest(t)
	rec := &recorder{}
	lintErr := errors.New("lint error")

	reg := domain.NewRegistry()
	agg := mustRegister(t, reg, "build", domain.NewSeries(
		rec.task("A", 0, nil),
		rec.task("B", 0, lintErr),
		rec.task("C", 0, nil),
	))

	report, err := s.Run(context.Background(), agg)

	require.Error(t, err)
	assert.Equal(t, []string{"A", "B"}, rec.list())
	require.ErrorIs(t, err, lintErr)
	require.ErrorIs(t, err, domain.ErrAggregateFailure)

	var failure *domain.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, domain.KindSeries, failure.Kind)
	assert.Equal(t, 2, failure.Index)
	assert.Equal(t, 3, failure.Total)
	require.Len(t, failure.Causes, 1)

	failed := domain.FailedTasks(err)
	require.Len(t, failed, 1)
	assert.Equal(t, "B", failed[0].Task)
	assert.Equal(t, "build/2:B", failed[0].Path)

	assert.Equal(t, domain.StatusSucceeded, report.Status(domain.KindTask, "build/1:A"))
	assert.Equal(t, domain.StatusFailed, report.Status(domain.KindTask, "build/2:B"))
	assert.Equal(t, domain.StatusPending, report.Status(domain.KindTask, "build/3:C"))
	assert.Equal(t, 2, report.Ran())
	assert.Equal(t, 1, report.Failed())
}

func TestScheduler_SeriesOfN(t *testing.T) {
	for failAt := 1; failAt <= 4; failAt++ {
		s, _ := setupSchedulerTest(t)
		rec := &recorder{}
		names := []string{"t1", "t2", "t3", "t4"}
		children := make([]domain.Node, len(names))
		for i, name := range names {
			var err error
			if i+1 == failAt {
				err = errors.New("boom")
			}
			children[i] = rec.task(name, 0, err)
		}

		reg := domain.NewRegistry()
		agg := mustRegister(t, reg, "series", domain.NewSeries(children...))

		_, err := s.Run(context.Background(), agg)
		require.Error(t, err)
		assert.Equal(t, names[:failAt], rec.list(), "fail at %d", failAt)
	}
}

func TestScheduler_ParallelIsFailSlow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, _ := setupSchedulerTest(t, scheduler.WithConcurrency(4))
		rec := &recorder{}
		errB := errors.New("B failed")

		reg := domain.NewRegistry()
		agg := mustRegister(t, reg, "build", domain.NewParallel(
			rec.task("A", 10*time.Millisecond, nil),
			rec.task("B", 5*time.Millisecond, errB),
		))

		start := time.Now()
		report, err := s.Run(context.Background(), agg)

		// Both ran to completion; B finished first.
		assert.Equal(t, []string{"B", "A"}, rec.list())
		assert.Equal(t, 10*time.Millisecond, time.Since(start))

		var failure *domain.Failure
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, domain.KindParallel, failure.Kind)
		require.Len(t, failure.Causes, 1)
		require.ErrorIs(t, failure.Causes[0], errB)

		assert.Equal(t, 1, report.Succeeded())
		assert.Equal(t, 1, report.Failed())
	})
}

func TestScheduler_ParallelReportsAllFailuresInListedOrder(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, _ := setupSchedulerTest(t, scheduler.WithConcurrency(4))
		rec := &recorder{}

		reg := domain.NewRegistry()
		agg := mustRegister(t, reg, "lint", domain.NewParallel(
			rec.task("scsslint", 30*time.Millisecond, errors.New("scss")),
			rec.task("ok", 20*time.Millisecond, nil),
			rec.task("eslint", 10*time.Millisecond, errors.New("es")),
		).Named("linters"))

		_, err := s.Run(context.Background(), agg)

		assert.ElementsMatch(t, []string{"scsslint", "ok", "eslint"}, rec.list())
		failed := domain.FailedTasks(err)
		require.Len(t, failed, 2)
		assert.Equal(t, "scsslint", failed[0].Task)
		assert.Equal(t, "lint/1:scsslint", failed[0].Path)
		assert.Equal(t, "eslint", failed[1].Task)
		assert.Contains(t, err.Error(), `parallel "linters" failed (2 of 3 steps)`)
	})
}

func TestScheduler_ParallelStartsChildrenTogether(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, _ := setupSchedulerTest(t, scheduler.WithConcurrency(8))
		rec := &recorder{}

		reg := domain.NewRegistry()
		agg := mustRegister(t, reg, "build", domain.NewParallel(
			rec.task("a", 10*time.Millisecond, nil),
			rec.task("b", 10*time.Millisecond, nil),
			rec.task("c", 10*time.Millisecond, nil),
		))

		start := time.Now()
		_, err := s.Run(context.Background(), agg)
		require.NoError(t, err)
		assert.Equal(t, 10*time.Millisecond, time.Since(start))
		assert.Len(t, rec.list(), 3)
	})
}

func TestScheduler_ConcurrencyCap(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, _ := setupSchedulerTest(t, scheduler.WithConcurrency(1))

		var mu sync.Mutex
		running, peak, done := 0, 0, 0
		work := func(name string) *domain.Task {
			return domain.NewTask(name, domain.ActionFunc(func(context.Context, io.Writer) error {
				mu.Lock()
				running++
				peak = max(peak, running)
				mu.Unlock()

				time.Sleep(10 * time.Millisecond)

				mu.Lock()
				running--
				done++
				mu.Unlock()
				return nil
			}))
		}

		reg := domain.NewRegistry()
		agg := mustRegister(t, reg, "build", domain.NewParallel(
			work("a"),
			domain.NewParallel(work("b"), work("c")),
			work("d"),
		))

		start := time.Now()
		_, err := s.Run(context.Background(), agg)
		require.NoError(t, err)

		assert.Equal(t, 1, peak)
		assert.Equal(t, 4, done)
		assert.Equal(t, 40*time.Millisecond, time.Since(start))
	})
}

func TestScheduler_TaskSpanStartsOnceSlotIsHeld(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		tracer := mocks.NewMockTracer(ctrl)
		span := mocks.NewMockSpan(ctrl)
		logger := mocks.NewMockLogger(ctrl)
		span.EXPECT().End().AnyTimes()
		span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
		span.EXPECT().Write(gomock.Any()).AnyTimes()
		logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
		tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any()).AnyTimes()

		rec := &recorder{}
		tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, name string, _ ...ports.SpanOption) (context.Context, ports.Span) {
				if name == "a" || name == "b" {
					rec.add("span " + name)
				}
				return ctx, span
			},
		).AnyTimes()

		s := scheduler.NewScheduler(tracer, logger, scheduler.WithConcurrency(1))
		reg := domain.NewRegistry()
		agg := mustRegister(t, reg, "build", domain.NewParallel(
			rec.task("a", 10*time.Millisecond, nil),
			rec.task("b", 10*time.Millisecond, nil),
		))

		_, err := s.Run(context.Background(), agg)
		require.NoError(t, err)

		events := rec.list()
		require.Len(t, events, 4)
		first, second := events[1], events[3]
		assert.NotEqual(t, first, second)
		assert.Equal(t, []string{"span " + first, first, "span " + second, second}, events)
	})
}

func TestScheduler_AggregateRootedAggregate(t *testing.T) {
	s, _ := setupSchedulerTest(t)
	rec := &recorder{}
	sassErr := errors.New("sass error")

	reg := domain.NewRegistry()
	css := mustRegister(t, reg, "css", domain.NewSeries(rec.task("scsslint", 0, nil), rec.task("sass", 0, sassErr)))
	wrapper := mustRegister(t, reg, "wrapper", css)

	report, err := s.Run(context.Background(), wrapper)
	require.ErrorIs(t, err, sassErr)

	statuses := map[string]domain.NodeStatus{}
	for _, step := range report.Steps() {
		statuses[step.Path] = step.Status
	}
	assert.Equal(t, map[string]domain.NodeStatus{
		"wrapper":                  domain.StatusFailed,
		"wrapper/1:css":            domain.StatusFailed,
		"wrapper/1:css/1:scsslint": domain.StatusSucceeded,
		"wrapper/1:css/2:sass":     domain.StatusFailed,
	}, statuses)
	assert.Equal(t, domain.StatusFailed, report.Status(domain.KindAggregate, "wrapper/1:css"))

	failed := domain.FailedTasks(err)
	require.Len(t, failed, 1)
	assert.Equal(t, "wrapper/1:css/2:sass", failed[0].Path)
}

func TestScheduler_NestedFailureStopsOuterSeries(t *testing.T) {
	s, _ := setupSchedulerTest(t)
	rec := &recorder{}

	reg := domain.NewRegistry()
	agg := mustRegister(t, reg, "default", domain.NewSeries(
		rec.task("clean", 0, nil),
		domain.NewParallel(rec.task("scsslint", 0, errors.New("lint error")), rec.task("eslint", 0, nil)).Named("linters"),
		rec.task("minify", 0, nil),
	))

	report, err := s.Run(context.Background(), agg)
	require.Error(t, err)

	assert.ElementsMatch(t, []string{"clean", "scsslint", "eslint"}, rec.list())
	assert.NotContains(t, rec.list(), "minify")
	assert.Equal(t, domain.StatusFailed, report.Status(domain.KindParallel, "default/2:linters"))
	assert.Equal(t, domain.StatusPending, report.Status(domain.KindTask, "default/3:minify"))

	failed := domain.FailedTasks(err)
	require.Len(t, failed, 1)
	assert.Equal(t, "default/2:linters/1:scsslint", failed[0].Path)
}

func TestScheduler_AggregateDependencyOrder(t *testing.T) {
	s, _ := setupSchedulerTest(t)
	rec := &recorder{}

	reg := domain.NewRegistry()
	css := mustRegister(t, reg, "css", domain.NewSeries(rec.task("Lint", 0, nil), rec.task("CompileStyles", 0, nil)))
	prep, err := reg.RegisterSeries("prep-release", css)
	require.NoError(t, err)
	publish, err := reg.RegisterSeries("publish", prep, rec.task("PublishStep", 0, nil))
	require.NoError(t, err)
	reg.Freeze()

	agg, err := reg.Lookup("publish")
	require.NoError(t, err)
	require.Same(t, publish, agg)

	report, err := s.Run(context.Background(), agg)
	require.NoError(t, err)

	assert.Equal(t, []string{"Lint", "CompileStyles", "PublishStep"}, rec.list())
	assert.Equal(t, 3, report.Succeeded())
	assert.Equal(t, domain.StatusSucceeded, report.Status(domain.KindAggregate, "publish/1:prep-release/1:css"))
}

func TestScheduler_ReRegisteredAggregateRunsNewGraph(t *testing.T) {
	s, _ := setupSchedulerTest(t)
	rec := &recorder{}

	reg := domain.NewRegistry()
	mustRegister(t, reg, "default", rec.task("old", 0, nil))
	mustRegister(t, reg, "default", rec.task("new", 0, nil))
	reg.Freeze()

	agg, err := reg.Lookup("default")
	require.NoError(t, err)

	_, err = s.Run(context.Background(), agg)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, rec.list())
}

func TestScheduler_NoStateBetweenRuns(t *testing.T) {
	s, _ := setupSchedulerTest(t)
	rec := &recorder{}

	reg := domain.NewRegistry()
	agg := mustRegister(t, reg, "build", domain.NewSeries(rec.task("a", 0, nil), rec.task("b", 0, nil)))

	first, err := s.Run(context.Background(), agg)
	require.NoError(t, err)
	second, err := s.Run(context.Background(), agg)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "a", "b"}, rec.list())
	assert.Equal(t, 2, first.Ran())
	assert.Equal(t, 2, second.Ran())
}

func TestScheduler_CancellationStopsSeries(t *testing.T) {
	s, _ := setupSchedulerTest(t)
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cancelling := domain.NewTask("first", domain.ActionFunc(func(context.Context, io.Writer) error {
		rec.add("first")
		cancel()
		return nil
	}))

	reg := domain.NewRegistry()
	agg := mustRegister(t, reg, "build", domain.NewSeries(cancelling, rec.task("second", 0, nil)))

	_, err := s.Run(ctx, agg)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"first"}, rec.list())
}

func TestScheduler_TaskOutputGoesToSpan(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	aggSpan := mocks.NewMockSpan(ctrl)
	taskSpan := mocks.NewMockSpan(ctrl)

	logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any()).Do(func(_ context.Context, plan domain.Plan) {
		assert.Equal(t, "hello", plan.Aggregate)
		assert.Len(t, plan.Tasks(), 1)
	})
	tracer.EXPECT().Start(gomock.Any(), "hello", gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, aggSpan
		})
	tracer.EXPECT().Start(gomock.Any(), "echo", gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, opts ...ports.SpanOption) (context.Context, ports.Span) {
			cfg := ports.NewSpanConfig(opts...)
			assert.Equal(t, "task", cfg.Attributes[ports.AttrNodeKind])
			assert.Equal(t, "hello", cfg.Attributes[ports.AttrNodePath])
			return ctx, taskSpan
		})
	aggSpan.EXPECT().End()
	taskSpan.EXPECT().Write([]byte("hi there\n")).Return(9, nil)
	taskSpan.EXPECT().End()

	echo := domain.NewTask("echo", domain.ActionFunc(func(_ context.Context, out io.Writer) error {
		_, err := io.WriteString(out, "hi there\n")
		return err
	}))
	reg := domain.NewRegistry()
	agg := mustRegister(t, reg, "hello", echo)

	s := scheduler.NewScheduler(tracer, logger)
	_, err := s.Run(context.Background(), agg)
	require.NoError(t, err)
}

func TestScheduler_DebugAggregateRaisesVerbosity(t *testing.T) {
	s, m := setupSchedulerTest(t)
	rec := &recorder{}

	gomock.InOrder(
		m.logger.EXPECT().DebugEnabled().Return(false),
		m.logger.EXPECT().SetDebug(true),
		m.logger.EXPECT().SetDebug(false),
	)

	reg := domain.NewRegistry()
	inner := mustRegister(t, reg, "css", rec.task("sass", 0, nil), domain.WithDebug(true))
	agg := mustRegister(t, reg, "default", domain.NewSeries(inner, rec.task("minify", 0, nil)), domain.WithDebug(true))

	_, err := s.Run(context.Background(), agg)
	require.NoError(t, err)
	assert.Equal(t, []string{"sass", "minify"}, rec.list())
}

func TestScheduler_DebugAlreadyEnabled(t *testing.T) {
	s, m := setupSchedulerTest(t)
	m.logger.EXPECT().DebugEnabled().Return(true)

	reg := domain.NewRegistry()
	agg := mustRegister(t, reg, "default", (&recorder{}).task("a", 0, nil), domain.WithDebug(true))

	_, err := s.Run(context.Background(), agg)
	require.NoError(t, err)
}

func TestScheduler_NilAggregate(t *testing.T) {
	s, _ := setupSchedulerTest(t)

	report, err := s.Run(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrNoAggregateSpecified)
	assert.NotNil(t, report)
}

func TestScheduler_Summary(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, _ := setupSchedulerTest(t)
		rec := &recorder{}

		reg := domain.NewRegistry()
		agg := mustRegister(t, reg, "build", domain.NewSeries(
			rec.task("a", 25*time.Millisecond, nil),
			rec.task("b", 0, errors.New("x")),
			rec.task("c", 0, nil),
		))

		report, err := s.Run(context.Background(), agg)
		require.Error(t, err)
		assert.Equal(t, "ran 2 of 3 tasks (1 succeeded, 1 failed) in 25ms", report.Summary())
	})
}

func TestNewScheduler_Concurrency(t *testing.T) {
	s, _ := setupSchedulerTest(t, scheduler.WithConcurrency(3))
	assert.Equal(t, 3, s.Concurrency())

	s, _ = setupSchedulerTest(t, scheduler.WithConcurrency(0))
	assert.Positive(t, s.Concurrency())
}
