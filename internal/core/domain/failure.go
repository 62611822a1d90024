package domain

import (
	"fmt"
	"strings"
)

// TaskError reports a failed task action. It carries the task name and the
// position of the task in the graph so the failing step can be located.
type TaskError struct {
	Task string
	Path string
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %q failed: %v", e.Task, e.Err)
}

// Message returns the error message without its cause.
func (e *TaskError) Message() string {
	return fmt.Sprintf("task %q failed", e.Task)
}

// Metadata returns the location of the failed task.
func (e *TaskError) Metadata() map[string]any {
	return map[string]any{"path": e.Path}
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTaskExecutionFailed.
func (e *TaskError) Is(target error) bool {
	return target == ErrTaskExecutionFailed
}

// Failure is the error surfaced by a series or parallel node.
// A series failure carries the first failing child only; a parallel failure
// carries every failed child in listed order.
type Failure struct {
	Node   string
	Path   string
	Kind   NodeKind
	Index  int // 1-based position of the failing child of a series
	Total  int // number of children of the node
	Causes []error
}

func (f *Failure) Error() string {
	causes := make([]string, len(f.Causes))
	for i, c := range f.Causes {
		causes[i] = c.Error()
	}
	return f.Message() + ": " + strings.Join(causes, "; ")
}

// Message returns the error message without its causes.
func (f *Failure) Message() string {
	if f.Kind == KindParallel {
		return fmt.Sprintf("%s %q failed (%d of %d steps)", f.Kind, f.Node, len(f.Causes), f.Total)
	}
	return fmt.Sprintf("%s %q failed at step %d of %d", f.Kind, f.Node, f.Index, f.Total)
}

// Metadata returns the location of the failed node.
func (f *Failure) Metadata() map[string]any {
	return map[string]any{"path": f.Path}
}

func (f *Failure) Unwrap() []error {
	return f.Causes
}

// Is reports whether target is ErrAggregateFailure.
func (f *Failure) Is(target error) bool {
	return target == ErrAggregateFailure
}

// FailedTasks returns every task error reachable from err, in graph order.
func FailedTasks(err error) []*TaskError {
	var out []*TaskError
	var walk func(error)
	walk = func(e error) {
		switch v := e.(type) {
		case nil:
			return
		case *TaskError:
			out = append(out, v)
		case interface{ Unwrap() []error }:
			for _, c := range v.Unwrap() {
				walk(c)
			}
		case interface{ Unwrap() error }:
			walk(v.Unwrap())
		}
	}
	walk(err)
	return out
}
