package actions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/zerr"
)

// Copy copies the files selected by the source glob into dest,
// preserving their layout relative to the source directory.
type Copy struct {
	resolver ports.InputResolver
	patterns []string
	srcDir   string
	destDir  string
	destRel  string
}

func newCopy(resolver ports.InputResolver, spec ports.ActionSpec, opts CopyOptions) (*Copy, error) {
	if opts.Source == nil || len(opts.Source.Glob) == 0 {
		return nil, domain.Annotate(domain.ErrOptionsInvalid, "reason", "copy requires source.glob")
	}
	if opts.Dest == "" {
		return nil, domain.Annotate(domain.ErrOptionsInvalid, "reason", "copy requires dest")
	}

	srcDir, err := inRoot(spec.Root, opts.Source.Options.Cwd)
	if err != nil {
		return nil, err
	}
	destDir, err := inRoot(spec.Root, opts.Dest)
	if err != nil {
		return nil, err
	}

	return &Copy{
		resolver: resolver,
		patterns: append([]string(nil), opts.Source.Glob...),
		srcDir:   srcDir,
		destDir:  destDir,
		destRel:  opts.Dest,
	}, nil
}

// Execute implements domain.Action.
func (c *Copy) Execute(ctx context.Context, out io.Writer) error {
	files, err := c.resolver.ResolveInputs(c.patterns, c.srcDir)
	if err != nil {
		return err
	}

	copied := 0
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		src := filepath.Join(c.srcDir, filepath.FromSlash(rel))
		dst := filepath.Join(c.destDir, filepath.FromSlash(rel))
		if src == dst {
			continue
		}
		if err := copyFile(src, dst); err != nil {
			return zerr.With(zerr.With(errors.Join(domain.ErrCopyFailed, err), "from", src), "to", dst)
		}
		copied++
	}

	_, _ = fmt.Fprintf(out, "copied %d files to %s\n", copied, c.destRel)
	return nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	in, err := os.Open(src) //nolint:gosec // path resolved inside the project root
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // read-only

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm()) //nolint:gosec // path resolved inside the project root
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
