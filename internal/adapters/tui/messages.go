package tui

import (
	"time"

	"go.trai.ch/recipe/internal/core/domain"
)

// MsgInitPlan resets the task list to the steps of plan.
type MsgInitPlan struct {
	Plan domain.Plan
}

// MsgTaskStart indicates a task span has started.
type MsgTaskStart struct {
	SpanID    string
	Path      string
	Name      string
	StartTime time.Time
}

// MsgTaskLog carries a chunk of output for a running task.
type MsgTaskLog struct {
	SpanID string
	Data   []byte
}

// MsgTaskComplete indicates a task span has ended.
type MsgTaskComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}
