// Package scheduler executes aggregate graphs.
package scheduler

import (
	"context"
	"runtime"
	"sync"
	"time"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Scheduler walks an aggregate's graph and executes it.
//
// Series children run strictly in order and the series stops at the first
// failure. Parallel children all start together and are never cancelled
// because a sibling failed. A Scheduler holds no state between runs.
type Scheduler struct {
	tracer      ports.Tracer
	logger      ports.Logger
	concurrency int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithConcurrency caps the number of tasks executing at the same time.
// Values below one are ignored.
func WithConcurrency(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(tracer ports.Tracer, logger ports.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		tracer:      tracer,
		logger:      logger,
		concurrency: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the graph bound to agg. The returned report is never nil.
func (s *Scheduler) Run(ctx context.Context, agg *domain.Aggregate) (*Report, error) {
	if agg == nil {
		return newReport(domain.Plan{}), domain.ErrNoAggregateSpecified
	}

	plan := domain.NewPlan(agg)
	state := &runState{
		s:      s,
		sem:    semaphore.NewWeighted(int64(s.concurrency)),
		report: newReport(plan),
	}

	s.tracer.EmitPlan(ctx, plan)
	err := state.runNode(ctx, agg, agg.Name())
	state.report.finish()
	return state.report, err
}

type runState struct {
	s      *Scheduler
	sem    *semaphore.Weighted
	report *Report

	debugMu   sync.Mutex
	debugRefs int
	prevDebug bool
}

func (st *runState) runNode(ctx context.Context, n domain.Node, path string) error {
	// A task holds its slot for the whole lifetime of its span.
	if t, ok := n.(*domain.Task); ok {
		if err := st.sem.Acquire(ctx, 1); err != nil {
			err = &domain.TaskError{Task: t.Name(), Path: path, Err: err}
			st.report.complete(domain.KindTask, path, 0, err)
			return err
		}
		defer st.sem.Release(1)
	}

	ctx, span := st.s.tracer.Start(ctx, n.Label(),
		ports.WithAttribute(ports.AttrNodeKind, string(n.Kind())),
		ports.WithAttribute(ports.AttrNodePath, path),
	)
	defer span.End()

	st.report.start(n.Kind(), path)
	start := time.Now()

	var err error
	switch node := n.(type) {
	case *domain.Task:
		err = st.runTask(ctx, node, path, span)
	case *domain.Series:
		err = st.runSeries(ctx, node, path)
	case *domain.Parallel:
		err = st.runParallel(ctx, node, path)
	case *domain.Aggregate:
		err = st.runAggregate(ctx, node, path)
	}

	if err != nil {
		span.RecordError(err)
	}
	st.report.complete(n.Kind(), path, time.Since(start), err)
	return err
}

func (st *runState) runTask(ctx context.Context, t *domain.Task, path string, span ports.Span) error {
	st.s.logger.Debug("starting task", "task", t.Name(), "path", path)
	if err := t.Execute(ctx, span); err != nil {
		st.s.logger.Debug("task failed", "task", t.Name(), "path", path)
		return &domain.TaskError{Task: t.Name(), Path: path, Err: err}
	}
	st.s.logger.Debug("finished task", "task", t.Name(), "path", path)
	return nil
}

func (st *runState) runSeries(ctx context.Context, s *domain.Series, path string) error {
	children := s.Children()
	for i, child := range children {
		if err := ctx.Err(); err != nil {
			return &domain.Failure{
				Node: s.Label(), Path: path, Kind: domain.KindSeries,
				Index: i + 1, Total: len(children), Causes: []error{err},
			}
		}
		if err := st.runNode(ctx, child, domain.ChildPath(s, path, i, child)); err != nil {
			return &domain.Failure{
				Node: s.Label(), Path: path, Kind: domain.KindSeries,
				Index: i + 1, Total: len(children), Causes: []error{err},
			}
		}
	}
	return nil
}

func (st *runState) runParallel(ctx context.Context, p *domain.Parallel, path string) error {
	children := p.Children()
	errs := make([]error, len(children))

	// Children report through errs so that a failure never cancels siblings.
	var g errgroup.Group
	for i, child := range children {
		g.Go(func() error {
			errs[i] = st.runNode(ctx, child, domain.ChildPath(p, path, i, child))
			return nil
		})
	}
	_ = g.Wait()

	var causes []error
	for _, err := range errs {
		if err != nil {
			causes = append(causes, err)
		}
	}
	if len(causes) == 0 {
		return nil
	}
	return &domain.Failure{
		Node: p.Label(), Path: path, Kind: domain.KindParallel,
		Total: len(children), Causes: causes,
	}
}

func (st *runState) runAggregate(ctx context.Context, agg *domain.Aggregate, path string) error {
	if agg.Debug() {
		st.enterDebug()
		defer st.exitDebug()
	}
	st.s.logger.Debug("running aggregate", "aggregate", agg.Name(), "path", path)
	root := agg.Root()
	return st.runNode(ctx, root, domain.ChildPath(agg, path, 0, root))
}

// enterDebug raises log verbosity while at least one debug aggregate runs.
func (st *runState) enterDebug() {
	st.debugMu.Lock()
	defer st.debugMu.Unlock()
	if st.debugRefs == 0 {
		st.prevDebug = st.s.logger.DebugEnabled()
		if !st.prevDebug {
			st.s.logger.SetDebug(true)
		}
	}
	st.debugRefs++
}

func (st *runState) exitDebug() {
	st.debugMu.Lock()
	defer st.debugMu.Unlock()
	st.debugRefs--
	if st.debugRefs == 0 && !st.prevDebug {
		st.s.logger.SetDebug(false)
	}
}
