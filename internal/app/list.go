package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/zerr"
)

// ListOptions configuration for the List method.
type ListOptions struct {
	ConfigPath string
	Tree       bool
}

// List prints the registered aggregates in name order. With Tree set, each
// aggregate is followed by its graph.
func (a *App) List(_ context.Context, w io.Writer, opts ListOptions) error {
	setup, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	names := setup.Registry.Names()
	if len(names) == 0 {
		_, _ = fmt.Fprintln(w, "no aggregates defined")
		return nil
	}

	for _, name := range names {
		agg, err := setup.Registry.Lookup(name)
		if err != nil {
			return err
		}
		if !opts.Tree {
			_, _ = fmt.Fprintln(w, name)
			continue
		}
		tree := domain.Describe(agg.Root())
		_, _ = fmt.Fprintf(w, "%s\n%s", name, indent(tree))
	}
	return nil
}

func indent(tree string) string {
	lines := strings.SplitAfter(tree, "\n")
	var sb strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		sb.WriteString("  " + line)
	}
	return sb.String()
}
