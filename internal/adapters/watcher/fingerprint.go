package watcher

import (
	"path"
	"path/filepath"
	"slices"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
)

// FileSet is a group of globs evaluated relative to Dir, which is itself
// relative to the project root.
type FileSet struct {
	Dir      string
	Patterns []string
}

// WatchSets collects the file sets watched by the tasks of n: each task's
// "watch" group, or its "source" group when it has none. Duplicates are dropped.
func WatchSets(n domain.Node) []FileSet {
	var sets []FileSet
	for task := range domain.Tasks(n) {
		opts := task.Options()
		group := "watch"
		if len(opts.Strings("watch.glob")) == 0 {
			group = "source"
		}
		patterns := opts.Strings(group + ".glob")
		if len(patterns) == 0 {
			continue
		}
		dir := opts.String(group + ".options.cwd")
		if dir == "" {
			dir = "."
		}

		set := FileSet{Dir: path.Clean(dir), Patterns: patterns}
		if !slices.ContainsFunc(sets, func(s FileSet) bool {
			return s.Dir == set.Dir && slices.Equal(s.Patterns, set.Patterns)
		}) {
			sets = append(sets, set)
		}
	}
	return sets
}

// Fingerprinter summarizes the content of file sets in one hash.
type Fingerprinter struct {
	resolver ports.InputResolver
	hasher   ports.Hasher
}

// NewFingerprinter creates a Fingerprinter.
func NewFingerprinter(resolver ports.InputResolver, hasher ports.Hasher) *Fingerprinter {
	return &Fingerprinter{resolver: resolver, hasher: hasher}
}

// Fingerprint resolves every set below root and hashes the union of the
// matched files. Sets whose directory does not exist contribute nothing.
func (f *Fingerprinter) Fingerprint(root string, sets []FileSet) (string, error) {
	var files []string
	for _, set := range sets {
		matched, err := f.resolver.ResolveInputs(set.Patterns, filepath.Join(root, filepath.FromSlash(set.Dir)))
		if err != nil {
			return "", err
		}
		for _, m := range matched {
			files = append(files, path.Join(set.Dir, m))
		}
	}
	slices.Sort(files)
	return f.hasher.HashFiles(root, slices.Compact(files))
}
