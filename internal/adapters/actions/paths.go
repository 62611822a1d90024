package actions

import (
	"path/filepath"
	"strings"

	"go.trai.ch/recipe/internal/core/domain"
)

// inRoot resolves rel against root and rejects results that leave root.
func inRoot(root, rel string) (string, error) {
	path := rel
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, rel)
	}
	path = filepath.Clean(path)

	r, err := filepath.Rel(root, path)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", domain.Annotate(domain.ErrPathOutsideRoot, "path", rel)
	}
	return path, nil
}
