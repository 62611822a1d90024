// Package shell runs task commands in a pseudo-terminal.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec and a pty.
// Commands that cannot get a pty fall back to plain pipes.
type Executor struct {
	logger ports.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger makes the executor log every command line at debug level.
func WithLogger(l ports.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// NewExecutor creates a new Executor.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs cmd and waits for it to exit.
// Under a pty stdout and stderr are merged and written to stdout.
func (e *Executor) Execute(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) error {
	if len(cmd.Args) == 0 {
		return domain.ErrEmptyCommand
	}

	if e.logger != nil {
		e.logger.Debug("exec", "command", strings.Join(cmd.Args, " "), "dir", cmd.Dir)
	}

	env := resolveEnvironment(os.Environ(), cmd.Env)

	name := cmd.Args[0]
	executable := name
	if !filepath.IsAbs(name) && !strings.Contains(name, string(filepath.Separator)) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	newCmd := func() *exec.Cmd {
		c := exec.CommandContext(ctx, executable, cmd.Args[1:]...) //nolint:gosec // user provided command
		c.Args[0] = name
		c.Dir = cmd.Dir
		c.Env = env
		return c
	}

	if err := run(newCmd, stdout, stderr); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.With(zerr.Wrap(err, "command failed"), "command", strings.Join(cmd.Args, " ")), "exit_code", exitCode)
	}
	return nil
}

func run(newCmd func() *exec.Cmd, stdout, stderr io.Writer) error {
	c := newCmd()
	ptmx, err := pty.Start(c)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			return err
		}
		c = newCmd()
		c.Stdout = stdout
		c.Stderr = stderr
		return c.Run()
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		_, _ = io.Copy(stdout, ptmx)
	}()

	waitErr := c.Wait()
	// Reading from the master returns EIO once the child and its descendants
	// closed the slave side, which ends the copy loop.
	<-ioDone
	_ = ptmx.Close()
	return waitErr
}

// resolveEnvironment overlays taskEnv on sysEnv and returns a sorted slice.
func resolveEnvironment(sysEnv []string, taskEnv map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(taskEnv))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range taskEnv {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches the PATH of env for an executable named file.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "PATH="); ok {
			path = after
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
