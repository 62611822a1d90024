// Package config loads recipe.yaml into a frozen aggregate registry.
package config

import (
	"errors"
	"path/filepath"

	"github.com/ohler55/ojg/oj"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/recipe/internal/engine/preset"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger  ports.Logger
	Factory ports.ActionFactory
	FS      FileSystem
}

// NewLoader creates a Loader reading from the operating system filesystem.
func NewLoader(logger ports.Logger, factory ports.ActionFactory) *Loader {
	return &Loader{Logger: logger, Factory: factory, FS: NewOSFS()}
}

// DiscoverRoot walks up from cwd to the nearest directory containing recipe.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	current, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve working directory")
	}

	for {
		if info, err := l.FS.Stat(filepath.Join(current, FileName)); err == nil && !info.IsDir() {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", domain.Annotate(domain.ErrConfigNotFound, "cwd", cwd)
		}
		current = parent
	}
}

// Load runs the setup phase: it reads the project file at path, builds every
// task and aggregate, and returns the frozen registry. When path is a
// directory the file is discovered upward from it. Nothing is executed.
func (l *Loader) Load(path string) (*domain.Setup, error) {
	configPath, err := l.resolvePath(path)
	if err != nil {
		return nil, err
	}

	data, err := l.FS.ReadFile(configPath)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", configPath)
	}

	doc, err := parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	root := filepath.Dir(configPath)
	project := l.project(doc, root)

	b := &builder{
		doc:     doc,
		factory: l.Factory,
		root:    root,
		project: project,
		preset:  preset.New(presetConfig(doc, project)),
	}

	if err := b.buildTasks(); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	reg := domain.NewRegistry()
	if err := b.buildAggregates(reg); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	reg.Freeze()

	l.Logger.Debug("loaded project file",
		"path", configPath,
		"tasks", len(b.tasks),
		"aggregates", reg.Len(),
	)

	return &domain.Setup{
		Project:  project,
		Registry: reg,
		Root:     root,
	}, nil
}

func (l *Loader) resolvePath(path string) (string, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve config path")
	}

	info, err := l.FS.Stat(abs)
	if err != nil {
		return "", domain.Annotate(domain.ErrConfigNotFound, "path", path)
	}
	if !info.IsDir() {
		return abs, nil
	}

	root, err := l.DiscoverRoot(abs)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, FileName), nil
}

// parse decodes and validates the document. Schema validation runs before
// the typed decode so structural mistakes are reported all at once.
func parse(data []byte) (*Recipefile, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, errors.Join(domain.ErrConfigParseFailed, err)
	}

	doc := &Recipefile{}
	if node.Kind == 0 || len(node.Content) == 0 {
		return doc, validateDocument(nil)
	}

	var raw any
	if err := node.Decode(&raw); err != nil {
		return nil, errors.Join(domain.ErrConfigParseFailed, err)
	}
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	if err := node.Decode(doc); err != nil {
		return nil, errors.Join(domain.ErrConfigParseFailed, err)
	}
	return doc, nil
}

func presetConfig(doc *Recipefile, project domain.Project) preset.Config {
	cfg := preset.Config{
		Project:    project,
		Global:     preset.Layer{Name: "defaults", Values: doc.Defaults},
		Categories: make(map[string]preset.Layer, len(doc.Categories)),
		Shared:     make(map[string]preset.Layer, len(doc.Layers)),
	}
	for name, values := range doc.Categories {
		cfg.Categories[name] = preset.Layer{Name: "categories." + name, Values: values}
	}
	for name, layer := range doc.Layers {
		cfg.Shared[name] = preset.Layer{Name: "layers." + name, Values: layer.Options, Additive: layer.Additive}
	}
	return cfg
}

// project returns the project section, or the metadata of package.json next
// to the project file when the section is absent.
func (l *Loader) project(doc *Recipefile, root string) domain.Project {
	if doc.Project != nil {
		return domain.Project{
			Name:        doc.Project.Name,
			Version:     doc.Project.Version,
			Author:      doc.Project.Author,
			Homepage:    doc.Project.Homepage,
			Description: doc.Project.Description,
			License:     doc.Project.License,
		}
	}

	data, err := l.FS.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return domain.Project{}
	}
	project, err := parsePackageJSON(data)
	if err != nil {
		l.Logger.Warn("ignoring unreadable package.json", "error", err.Error())
		return domain.Project{}
	}
	return project
}

func parsePackageJSON(data []byte) (domain.Project, error) {
	v, err := oj.Parse(data)
	if err != nil {
		return domain.Project{}, err
	}
	pkg, ok := v.(map[string]any)
	if !ok {
		return domain.Project{}, zerr.New("package.json is not an object")
	}

	str := func(key string) string {
		s, _ := pkg[key].(string)
		return s
	}
	author := str("author")
	if a, ok := pkg["author"].(map[string]any); ok {
		author, _ = a["name"].(string)
	}

	return domain.Project{
		Name:        str("name"),
		Version:     str("version"),
		Author:      author,
		Homepage:    str("homepage"),
		Description: str("description"),
		License:     str("license"),
	}, nil
}
