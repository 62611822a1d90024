package actions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/zerr"
)

// Clean removes build outputs. It never touches anything outside the
// project root, nor the root itself.
type Clean struct {
	root  string
	paths []string
}

func newClean(spec ports.ActionSpec, opts CleanOptions) (*Clean, error) {
	paths := []string(opts.Paths)
	if len(paths) == 0 && opts.Dest != "" {
		paths = []string{opts.Dest}
	}
	if len(paths) == 0 {
		return nil, domain.Annotate(domain.ErrOptionsInvalid, "reason", "clean requires paths or dest")
	}

	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := inRoot(spec.Root, p)
		if err != nil {
			return nil, err
		}
		if abs == spec.Root {
			return nil, domain.Annotate(domain.ErrPathOutsideRoot, "path", p)
		}
		resolved = append(resolved, abs)
	}

	return &Clean{root: spec.Root, paths: resolved}, nil
}

// Execute implements domain.Action.
func (c *Clean) Execute(ctx context.Context, out io.Writer) error {
	for _, p := range c.paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.RemoveAll(p); err != nil {
			return zerr.With(errors.Join(domain.ErrCleanFailed, err), "path", p)
		}
		_, _ = fmt.Fprintf(out, "removed %s\n", p)
	}
	return nil
}
