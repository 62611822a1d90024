package ports

import "go.trai.ch/recipe/internal/core/domain"

// ActionSpec describes the action a task should perform.
type ActionSpec struct {
	// Task is the task name.
	Task string
	// Kind selects the action implementation, e.g. "exec" or "copy".
	Kind string
	// Options are the task's resolved options.
	Options domain.Options
	// Root is the project root directory.
	Root string
	// Project is the project metadata.
	Project domain.Project
}

// ActionFactory builds task actions from their specs.
//
//go:generate mockgen -source=action.go -destination=mocks/mock_action.go -package=mocks
type ActionFactory interface {
	// Build validates spec.Options against the schema of spec.Kind and returns the action.
	Build(spec ActionSpec) (domain.Action, error)
}
