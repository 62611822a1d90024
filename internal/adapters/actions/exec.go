package actions

import (
	"context"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
)

// Exec runs an external command through a ports.Executor.
type Exec struct {
	executor ports.Executor
	cmd      domain.Command
}

func newExec(executor ports.Executor, spec ports.ActionSpec, opts ExecOptions) (*Exec, error) {
	if len(opts.Cmd) == 0 {
		return nil, domain.ErrEmptyCommand
	}

	dir, err := inRoot(spec.Root, opts.Dir)
	if err != nil {
		return nil, err
	}

	env := map[string]string{
		"RECIPE_TASK":  spec.Task,
		"RECIPE_ROOT":  spec.Root,
		"RECIPE_DEBUG": strconv.FormatBool(opts.Debug),
	}
	if opts.Dest != "" {
		env["RECIPE_DEST"] = filepath.Join(spec.Root, opts.Dest)
	}
	if opts.Source != nil && opts.Source.Options.Cwd != "" {
		env["RECIPE_SOURCE_DIR"] = filepath.Join(spec.Root, opts.Source.Options.Cwd)
	}
	for k, v := range projectEnv(spec.Project) {
		env[k] = v
	}
	for k, v := range opts.Env {
		env[k] = v
	}

	return &Exec{
		executor: executor,
		cmd: domain.Command{
			Args: append([]string(nil), opts.Cmd...),
			Dir:  dir,
			Env:  env,
		},
	}, nil
}

// Command returns the command the action runs.
func (e *Exec) Command() domain.Command { return e.cmd }

// Execute implements domain.Action.
func (e *Exec) Execute(ctx context.Context, out io.Writer) error {
	return e.executor.Execute(ctx, e.cmd, out, out)
}

// projectEnv exposes project metadata as RECIPE_PROJECT_* variables.
func projectEnv(p domain.Project) map[string]string {
	env := map[string]string{}
	for k, v := range p.Layer()["project"].(map[string]any) {
		env["RECIPE_PROJECT_"+strings.ToUpper(k)] = v.(string)
	}
	return env
}
