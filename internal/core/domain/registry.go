package domain

import (
	"maps"
	"regexp"
	"slices"
	"sync/atomic"

	"go.trai.ch/zerr"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9._:-]*$`)

// ValidateName checks that name can be used for a task or aggregate.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return Annotate(ErrInvalidName, "name", name)
	}
	return nil
}

// Registry maps aggregate names to graphs.
//
// It has two phases. During setup a single writer registers aggregates.
// Freeze ends setup; from then on the registry is read-only and may be
// queried concurrently.
type Registry struct {
	aggregates map[string]*Aggregate
	frozen     atomic.Bool
}

// NewRegistry creates an empty registry in the setup phase.
func NewRegistry() *Registry {
	return &Registry{aggregates: make(map[string]*Aggregate)}
}

// Register binds name to root. Registering an existing name replaces the
// previous binding.
func (r *Registry) Register(name string, root Node, opts ...AggregateOption) (*Aggregate, error) {
	if r.frozen.Load() {
		return nil, Annotate(ErrRegistryFrozen, "aggregate", name)
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidateNode(root); err != nil {
		return nil, zerr.With(err, "aggregate", name)
	}

	agg := &Aggregate{name: name, root: root}
	for _, opt := range opts {
		opt(agg)
	}
	r.aggregates[name] = agg
	return agg, nil
}

// RegisterSeries binds name to a series over nodes.
func (r *Registry) RegisterSeries(name string, nodes ...Node) (*Aggregate, error) {
	return r.Register(name, NewSeries(nodes...).Named(name))
}

// Lookup returns the aggregate registered under name.
func (r *Registry) Lookup(name string) (*Aggregate, error) {
	if name == "" {
		return nil, ErrNoAggregateSpecified
	}
	agg, ok := r.aggregates[name]
	if !ok {
		return nil, Annotate(ErrAggregateNotFound, "aggregate", name)
	}
	return agg, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.aggregates))
}

// Len returns the number of registered aggregates.
func (r *Registry) Len() int {
	return len(r.aggregates)
}

// Freeze ends the setup phase. It is idempotent.
func (r *Registry) Freeze() {
	r.frozen.Store(true)
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	return r.frozen.Load()
}
