package scheduler

import (
	"fmt"
	"sync"
	"time"

	"go.trai.ch/recipe/internal/core/domain"
)

// StepResult is the outcome of one plan step.
type StepResult struct {
	domain.PlanStep
	Status   domain.NodeStatus
	Duration time.Duration
	Err      error
}

// Report records the outcome of a single run.
type Report struct {
	mu      sync.Mutex
	steps   []StepResult
	index   map[stepKey]int
	started time.Time
	elapsed time.Duration
}

type stepKey struct {
	kind domain.NodeKind
	path string
}

func newReport(plan domain.Plan) *Report {
	r := &Report{
		steps:   make([]StepResult, len(plan.Steps)),
		index:   make(map[stepKey]int, len(plan.Steps)),
		started: time.Now(),
	}
	for i, step := range plan.Steps {
		r.steps[i] = StepResult{PlanStep: step, Status: domain.StatusPending}
		r.index[stepKey{kind: step.Kind, path: step.Path}] = i
	}
	return r
}

func (r *Report) start(kind domain.NodeKind, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.index[stepKey{kind: kind, path: path}]; ok {
		r.steps[i].Status = domain.StatusRunning
	}
}

func (r *Report) complete(kind domain.NodeKind, path string, d time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[stepKey{kind: kind, path: path}]
	if !ok {
		return
	}
	r.steps[i].Duration = d
	r.steps[i].Err = err
	if err != nil {
		r.steps[i].Status = domain.StatusFailed
	} else {
		r.steps[i].Status = domain.StatusSucceeded
	}
}

func (r *Report) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.elapsed = time.Since(r.started)
}

// Steps returns a copy of every step result in plan order.
func (r *Report) Steps() []StepResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StepResult(nil), r.steps...)
}

// Tasks returns the task results in plan order.
func (r *Report) Tasks() []StepResult {
	var out []StepResult
	for _, s := range r.Steps() {
		if s.Kind == domain.KindTask {
			out = append(out, s)
		}
	}
	return out
}

// Status returns the status of the step of the given kind at path.
func (r *Report) Status(kind domain.NodeKind, path string) domain.NodeStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.index[stepKey{kind: kind, path: path}]; ok {
		return r.steps[i].Status
	}
	return domain.StatusPending
}

// Succeeded returns the number of tasks that succeeded.
func (r *Report) Succeeded() int { return r.countTasks(domain.StatusSucceeded) }

// Failed returns the number of tasks that failed.
func (r *Report) Failed() int { return r.countTasks(domain.StatusFailed) }

// Ran returns the number of tasks that started.
func (r *Report) Ran() int {
	n := 0
	for _, s := range r.Tasks() {
		if s.Status.IsTerminal() || s.Status == domain.StatusRunning {
			n++
		}
	}
	return n
}

// Total returns the number of task occurrences in the graph.
func (r *Report) Total() int { return len(r.Tasks()) }

// Elapsed returns the wall time of the run.
func (r *Report) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}

// Summary returns a one-line description of the run.
func (r *Report) Summary() string {
	return fmt.Sprintf("ran %d of %d tasks (%d succeeded, %d failed) in %s",
		r.Ran(), r.Total(), r.Succeeded(), r.Failed(), r.Elapsed().Round(time.Millisecond))
}

func (r *Report) countTasks(status domain.NodeStatus) int {
	n := 0
	for _, s := range r.Tasks() {
		if s.Status == status {
			n++
		}
	}
	return n
}
