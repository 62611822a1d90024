// Package fs provides file system adapters for expanding globs and fingerprinting files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// skippedDirs are never descended into.
var skippedDirs = map[string]struct{}{
	".git":         {},
	".jj":          {},
	"node_modules": {},
}

// Walker walks project trees.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields the slash-separated paths, relative to root, of every
// regular file below root. Version-control metadata and node_modules are skipped.
func (w *Walker) WalkFiles(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				return nil
			}
			if d.IsDir() {
				if _, skip := skippedDirs[d.Name()]; skip && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return nil
			}
			if !yield(filepath.ToSlash(rel)) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// WatchedDirs yields root and every directory below it that WalkFiles would enter.
func (w *Walker) WatchedDirs(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil
			}
			if _, skip := skippedDirs[d.Name()]; skip && path != root {
				return filepath.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
