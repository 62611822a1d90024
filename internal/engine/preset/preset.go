package preset

import "go.trai.ch/recipe/internal/core/domain"

// Config holds the layers a Preset stacks for every task.
type Config struct {
	Project domain.Project
	// Baseline holds library defaults. Nil selects Baseline().
	Baseline map[string]Layer
	// Global applies to every task.
	Global Layer
	// Categories apply to tasks of the matching category.
	Categories map[string]Layer
	// Shared are named layers tasks opt into with extends.
	Shared map[string]Layer
}

// Preset produces the ordered layer stack for a task.
type Preset struct {
	cfg Config
}

// New creates a Preset.
func New(cfg Config) *Preset {
	if cfg.Baseline == nil {
		cfg.Baseline = Baseline()
	}
	return &Preset{cfg: cfg}
}

// Layers returns the stack for a task, lowest first:
// project, baseline defaults, baseline category, global, category,
// each extended shared layer, instance.
func (p *Preset) Layers(category string, extends []string, instance Layer) ([]Layer, error) {
	stack := []Layer{
		{Name: "project", Values: p.cfg.Project.Layer()},
		p.cfg.Baseline[DefaultsLayer],
	}
	if l, ok := p.cfg.Baseline[category]; ok {
		stack = append(stack, l)
	}
	stack = append(stack, named(p.cfg.Global, "defaults"))
	if l, ok := p.cfg.Categories[category]; ok {
		stack = append(stack, named(l, "categories."+category))
	}
	for _, name := range extends {
		l, ok := p.cfg.Shared[name]
		if !ok {
			return nil, domain.Annotate(domain.ErrUnknownLayer, "layer", name)
		}
		stack = append(stack, named(l, "layers."+name))
	}
	return append(stack, instance), nil
}

// Resolve merges the stack for a task.
func (p *Preset) Resolve(category string, extends []string, instance Layer) (domain.Options, error) {
	layers, err := p.Layers(category, extends, instance)
	if err != nil {
		return domain.Options{}, err
	}
	return Resolve(layers...)
}

func named(l Layer, name string) Layer {
	if l.Name == "" {
		l.Name = name
	}
	return l
}
