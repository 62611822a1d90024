package config

import (
	"maps"
	"slices"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/recipe/internal/engine/preset"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// builder turns a decoded Recipefile into tasks and aggregates.
type builder struct {
	doc     *Recipefile
	preset  *preset.Preset
	factory ports.ActionFactory
	root    string
	project domain.Project

	tasks      map[string]*domain.Task
	aggregates map[string]*domain.Aggregate
}

// buildTasks builds every task once, in name order.
func (b *builder) buildTasks() error {
	b.tasks = make(map[string]*domain.Task, len(b.doc.Tasks))
	for _, name := range slices.Sorted(maps.Keys(b.doc.Tasks)) {
		task, err := b.buildTask(name, b.doc.Tasks[name])
		if err != nil {
			return zerr.With(err, "task", name)
		}
		b.tasks[name] = task
	}
	return nil
}

func (b *builder) buildTask(name string, dto *TaskDTO) (*domain.Task, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}
	if dto == nil {
		return nil, domain.Annotate(domain.ErrInvalidNode, "reason", "empty task definition")
	}

	opts, err := b.preset.Resolve(dto.Category, dto.Extends, preset.Layer{
		Name:     "tasks." + name,
		Values:   dto.Options,
		Additive: dto.Additive,
	})
	if err != nil {
		return nil, err
	}

	action, err := b.factory.Build(ports.ActionSpec{
		Task:    name,
		Kind:    dto.Action,
		Options: opts,
		Root:    b.root,
		Project: b.project,
	})
	if err != nil {
		return nil, err
	}

	return domain.NewTask(name, action,
		domain.WithCategory(dto.Category),
		domain.WithKind(dto.Action),
		domain.WithOptions(opts),
	), nil
}

// buildAggregates registers aggregates in declaration order. An aggregate can
// only embed aggregates declared above it.
func (b *builder) buildAggregates(reg *domain.Registry) error {
	b.aggregates = make(map[string]*domain.Aggregate, len(b.doc.Aggregates))
	for i := range b.doc.Aggregates {
		dto := &b.doc.Aggregates[i]
		root, err := b.aggregateRoot(dto)
		if err != nil {
			return zerr.With(err, "aggregate", dto.Name)
		}
		agg, err := reg.Register(dto.Name, root, domain.WithDebug(dto.Debug))
		if err != nil {
			return err
		}
		b.aggregates[dto.Name] = agg
	}
	return nil
}

func (b *builder) aggregateRoot(dto *AggregateDTO) (domain.Node, error) {
	switch {
	case dto.Run.Kind != 0:
		return b.node(&dto.Run)
	case dto.Series != nil:
		children, err := b.nodes(dto.Series)
		if err != nil {
			return nil, err
		}
		return domain.NewSeries(children...).Named(dto.Name), nil
	case dto.Parallel != nil:
		children, err := b.nodes(dto.Parallel)
		if err != nil {
			return nil, err
		}
		return domain.NewParallel(children...).Named(dto.Name), nil
	default:
		return nil, domain.Annotate(domain.ErrInvalidNode, "reason", "aggregate needs one of run, series or parallel")
	}
}

func (b *builder) nodes(list []yaml.Node) ([]domain.Node, error) {
	out := make([]domain.Node, 0, len(list))
	for i := range list {
		n, err := b.node(&list[i])
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// nodeDTO is the mapping form of a graph node.
type nodeDTO struct {
	Name      string      `yaml:"name"`
	Task      string      `yaml:"task"`
	Aggregate string      `yaml:"aggregate"`
	Series    []yaml.Node `yaml:"series"`
	Parallel  []yaml.Node `yaml:"parallel"`
}

// node interprets one graph node:
//
//	clean                      task reference
//	{task: clean}              task reference
//	{aggregate: lint}          previously declared aggregate
//	{series: [...], name: x}   series
//	{parallel: [...]}          parallel
//
// Bare lists are rejected because they do not say how to run their items.
func (b *builder) node(n *yaml.Node) (domain.Node, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return b.node(n.Alias)
	case yaml.ScalarNode:
		return b.taskRef(n.Value, n.Line)
	case yaml.SequenceNode:
		return nil, domain.Annotate(domain.ErrAmbiguousList, "line", n.Line)
	case yaml.MappingNode:
		return b.mappingNode(n)
	default:
		return nil, domain.Annotate(domain.ErrInvalidNode, "line", n.Line)
	}
}

func (b *builder) mappingNode(n *yaml.Node) (domain.Node, error) {
	var dto nodeDTO
	if err := n.Decode(&dto); err != nil {
		return nil, zerr.With(domain.Annotate(domain.ErrInvalidNode, "line", n.Line), "reason", err.Error())
	}

	set := 0
	for _, present := range []bool{dto.Task != "", dto.Aggregate != "", dto.Series != nil, dto.Parallel != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, zerr.With(domain.Annotate(domain.ErrInvalidNode, "line", n.Line),
			"reason", "node needs exactly one of task, aggregate, series or parallel")
	}

	switch {
	case dto.Task != "":
		return b.taskRef(dto.Task, n.Line)
	case dto.Aggregate != "":
		agg, ok := b.aggregates[dto.Aggregate]
		if !ok {
			return nil, zerr.With(domain.Annotate(domain.ErrUnknownAggregate, "reference", dto.Aggregate), "line", n.Line)
		}
		return agg, nil
	case dto.Series != nil:
		children, err := b.nodes(dto.Series)
		if err != nil {
			return nil, err
		}
		series := domain.NewSeries(children...)
		if dto.Name != "" {
			series = series.Named(dto.Name)
		}
		return series, nil
	default:
		children, err := b.nodes(dto.Parallel)
		if err != nil {
			return nil, err
		}
		parallel := domain.NewParallel(children...)
		if dto.Name != "" {
			parallel = parallel.Named(dto.Name)
		}
		return parallel, nil
	}
}

func (b *builder) taskRef(name string, line int) (domain.Node, error) {
	task, ok := b.tasks[name]
	if !ok {
		return nil, zerr.With(domain.Annotate(domain.ErrUnknownTask, "reference", name), "line", line)
	}
	return task, nil
}
