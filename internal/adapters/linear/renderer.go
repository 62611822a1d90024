// Package linear provides a synchronous, line-buffered renderer for CI environments.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/ui/output"
	"go.trai.ch/recipe/internal/ui/style"
)

// Renderer implements ports.Renderer for non-interactive environments.
// Task output goes to stdout with a "[name]" prefix per line; lifecycle
// messages go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu    sync.Mutex
	tasks map[string]*taskState
}

type taskState struct {
	name      string
	path      string
	startTime time.Time
	pending   bytes.Buffer
}

// NewRenderer creates a new Renderer. Nil writers default to the process streams.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		output: output.NewWithProfile(stderr, output.ColorProfileANSI),
		tasks:  make(map[string]*taskState),
	}
}

// Start is a no-op.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes partial lines of tasks that never completed.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, task := range r.tasks {
		r.flushLocked(task)
	}
	return nil
}

// Wait is a no-op.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the aggregate about to run.
func (r *Renderer) OnPlanEmit(plan domain.Plan) {
	r.mu.Lock()
	defer r.mu.Unlock()

	title := r.output.String(plan.Aggregate).Bold().String()
	_, _ = fmt.Fprintf(r.stderr, "Running %s (%d tasks)\n", title, len(plan.Tasks()))
}

// OnTaskStart prints a task start message.
func (r *Renderer) OnTaskStart(spanID, path, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[spanID] = &taskState{name: name, path: path, startTime: startTime}

	prefix := r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", prefix)
}

// OnTaskLog prints complete lines with the task prefix and keeps the
// trailing partial line until more data arrives.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	task.pending.Write(data)
	for {
		i := bytes.IndexByte(task.pending.Bytes(), '\n')
		if i < 0 {
			return
		}
		line := task.pending.Next(i + 1)
		r.printLineLocked(task.name, line)
	}
}

// OnTaskComplete flushes remaining output and prints the outcome.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}
	r.flushLocked(task)
	delete(r.tasks, spanID)

	duration := endTime.Sub(task.startTime).Round(time.Millisecond)
	prefix := fmt.Sprintf("[%s]", task.name)
	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v (%s): %v\n", prefix, symbol, duration, task.path, err)
		return
	}
	symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n", prefix, symbol, duration)
}

// flushLocked must be called with r.mu held.
func (r *Renderer) flushLocked(task *taskState) {
	if task.pending.Len() > 0 {
		r.printLineLocked(task.name, task.pending.Bytes())
		task.pending.Reset()
	}
}

// printLineLocked must be called with r.mu held.
func (r *Renderer) printLineLocked(name string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", name, line)
}
