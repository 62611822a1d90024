package config

import (
	_ "embed"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the project file.
const FileName = "recipe.yaml"

// Recipefile represents the structure of recipe.yaml.
type Recipefile struct {
	Version    string                    `yaml:"version"`
	Project    *ProjectDTO               `yaml:"project"`
	Defaults   map[string]any            `yaml:"defaults"`
	Categories map[string]map[string]any `yaml:"categories"`
	Layers     map[string]LayerDTO       `yaml:"layers"`
	Tasks      map[string]*TaskDTO       `yaml:"tasks"`
	Aggregates []AggregateDTO            `yaml:"aggregates"`
}

// ProjectDTO is the project metadata section.
type ProjectDTO struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Author      string `yaml:"author"`
	Homepage    string `yaml:"homepage"`
	Description string `yaml:"description"`
	License     string `yaml:"license"`
}

// LayerDTO is a named shared option layer.
type LayerDTO struct {
	Additive bool           `yaml:"additive"`
	Options  map[string]any `yaml:"options"`
}

// TaskDTO is a task definition.
type TaskDTO struct {
	Category string         `yaml:"category"`
	Action   string         `yaml:"action"`
	Extends  []string       `yaml:"extends"`
	Additive bool           `yaml:"additive"`
	Options  map[string]any `yaml:"options"`
}

// AggregateDTO is an aggregate definition. Exactly one of Run, Series and
// Parallel is set.
type AggregateDTO struct {
	Name     string      `yaml:"name"`
	Debug    bool        `yaml:"debug"`
	Run      yaml.Node   `yaml:"run"`
	Series   []yaml.Node `yaml:"series"`
	Parallel []yaml.Node `yaml:"parallel"`
}

//go:embed recipe.schema.json
var documentSchema string

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// validateDocument checks a decoded document against the embedded schema.
func validateDocument(doc any) error {
	if doc == nil {
		doc = map[string]any{}
	}
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return zerr.Wrap(err, "failed to validate config file")
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return domain.Annotate(domain.ErrConfigSchemaInvalid, "problems", strings.Join(problems, "\n"))
}
