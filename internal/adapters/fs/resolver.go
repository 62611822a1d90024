package fs

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements ports.InputResolver with doublestar globs.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	return &Resolver{walker: walker}
}

// ResolveInputs expands patterns against the files below dir.
// Patterns are applied in order; a pattern starting with "!" removes the
// files it matches. A pattern that matches nothing is not an error.
func (r *Resolver) ResolveInputs(patterns []string, dir string) ([]string, error) {
	type rule struct {
		pattern string
		exclude bool
	}

	rules := make([]rule, 0, len(patterns))
	for _, p := range patterns {
		exclude := strings.HasPrefix(p, "!")
		p = strings.TrimPrefix(p, "!")
		p = strings.TrimPrefix(filepath.ToSlash(p), "./")
		if !doublestar.ValidatePattern(p) {
			return nil, zerr.With(zerr.New("invalid glob pattern"), "pattern", p)
		}
		rules = append(rules, rule{pattern: p, exclude: exclude})
	}
	if len(rules) == 0 {
		return nil, nil
	}

	var result []string
	for file := range r.walker.WalkFiles(dir) {
		included := false
		for _, rl := range rules {
			// Only a rule that could flip the current state needs matching.
			if rl.exclude != included {
				continue
			}
			if matchFile(rl.pattern, file) {
				included = !rl.exclude
			}
		}
		if included {
			result = append(result, file)
		}
	}
	slices.Sort(result)
	return result, nil
}

// matchFile matches pattern against the full relative path, and patterns
// without a slash also against the base name, so "*.scss" finds nested files.
func matchFile(pattern, file string) bool {
	if ok, _ := doublestar.Match(pattern, file); ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		ok, _ := doublestar.Match(pattern, filepath.Base(file))
		return ok
	}
	return false
}
