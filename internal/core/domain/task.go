package domain

import (
	"context"
	"io"
)

// Action is the side-effecting operation behind a Task.
// Implementations are supplied by external collaborators (exec, copy, clean...).
type Action interface {
	Execute(ctx context.Context, out io.Writer) error
}

// ActionFunc adapts a function to the Action interface.
type ActionFunc func(ctx context.Context, out io.Writer) error

// Execute calls f.
func (f ActionFunc) Execute(ctx context.Context, out io.Writer) error {
	return f(ctx, out)
}

// Task represents a named unit of build work.
// It is created once while the graph is built and is immutable thereafter.
type Task struct {
	name     string
	category string
	kind     string
	options  Options
	action   Action
}

// TaskOption configures a Task at construction time.
type TaskOption func(*Task)

// WithCategory sets the task category (e.g. "javascripts").
func WithCategory(category string) TaskOption {
	return func(t *Task) { t.category = category }
}

// WithKind sets the action kind tag (e.g. "exec").
func WithKind(kind string) TaskOption {
	return func(t *Task) { t.kind = kind }
}

// WithOptions sets the resolved options.
func WithOptions(opts Options) TaskOption {
	return func(t *Task) { t.options = opts }
}

// NewTask creates a Task. A nil action is treated as a no-op.
func NewTask(name string, action Action, opts ...TaskOption) *Task {
	t := &Task{
		name:    name,
		action:  action,
		options: NewOptions(nil),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the task name.
func (t *Task) Name() string { return t.name }

// Category returns the task category.
func (t *Task) Category() string { return t.category }

// ActionKind returns the action kind tag.
func (t *Task) ActionKind() string { return t.kind }

// Options returns the resolved options.
func (t *Task) Options() Options { return t.options }

// Execute runs the task action once. Tasks never retry.
func (t *Task) Execute(ctx context.Context, out io.Writer) error {
	if t.action == nil {
		return nil
	}
	return t.action.Execute(ctx, out)
}

// Kind implements Node.
func (t *Task) Kind() NodeKind { return KindTask }

// Label implements Node.
func (t *Task) Label() string { return t.name }

// Children implements Node.
func (t *Task) Children() []Node { return nil }

func (t *Task) node() {}

// Command describes a process to run on behalf of a task.
type Command struct {
	Args []string
	Dir  string
	Env  map[string]string
}
