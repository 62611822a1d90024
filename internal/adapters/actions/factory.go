package actions

import (
	"path/filepath"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/recipe/internal/engine/preset"
	"go.trai.ch/zerr"
)

// Action kinds understood by the Factory.
const (
	KindExec  = "exec"
	KindCopy  = "copy"
	KindClean = "clean"
)

var _ ports.ActionFactory = (*Factory)(nil)

// Factory builds the built-in actions.
type Factory struct {
	executor ports.Executor
	resolver ports.InputResolver
}

// NewFactory creates a Factory.
func NewFactory(executor ports.Executor, resolver ports.InputResolver) *Factory {
	return &Factory{executor: executor, resolver: resolver}
}

// Kinds lists the supported action kinds.
func (f *Factory) Kinds() []string {
	return []string{KindClean, KindCopy, KindExec}
}

// Build decodes spec.Options into the schema of spec.Kind and returns the action.
func (f *Factory) Build(spec ports.ActionSpec) (domain.Action, error) {
	if spec.Root != "" {
		spec.Root = filepath.Clean(spec.Root)
	}

	action, err := f.build(spec)
	if err != nil {
		return nil, zerr.With(zerr.With(err, "task", spec.Task), "action", spec.Kind)
	}
	return action, nil
}

func (f *Factory) build(spec ports.ActionSpec) (domain.Action, error) {
	switch spec.Kind {
	case KindExec:
		opts, err := preset.Decode[ExecOptions](spec.Options)
		if err != nil {
			return nil, err
		}
		return newExec(f.executor, spec, opts)
	case KindCopy:
		opts, err := preset.Decode[CopyOptions](spec.Options)
		if err != nil {
			return nil, err
		}
		return newCopy(f.resolver, spec, opts)
	case KindClean:
		opts, err := preset.Decode[CleanOptions](spec.Options)
		if err != nil {
			return nil, err
		}
		return newClean(spec, opts)
	default:
		return nil, domain.ErrUnknownAction
	}
}
