package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/recipe/internal/core/domain"
)

// Renderer wraps the Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a new TUI renderer.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the program in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop signals the program to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the program has terminated.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnPlanEmit resets the task list to plan.
func (r *Renderer) OnPlanEmit(plan domain.Plan) {
	r.program.Send(MsgInitPlan{Plan: plan})
}

// OnTaskStart forwards task start events to the program.
func (r *Renderer) OnTaskStart(spanID, path, name string, startTime time.Time) {
	r.program.Send(MsgTaskStart{SpanID: spanID, Path: path, Name: name, StartTime: startTime})
}

// OnTaskLog forwards task output to the program.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.program.Send(MsgTaskLog{SpanID: spanID, Data: data})
}

// OnTaskComplete forwards task completion events to the program.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.program.Send(MsgTaskComplete{SpanID: spanID, EndTime: endTime, Err: err})
}

// Model returns the model driven by the program.
func (r *Renderer) Model() *Model {
	return r.model
}
