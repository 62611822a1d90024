package domain

// Aggregate binds a name to an execution graph.
// Aggregates are nodes themselves, so a graph may embed another aggregate
// directly instead of referring to it by name.
type Aggregate struct {
	name  string
	root  Node
	debug bool
}

// AggregateOption configures an Aggregate at registration time.
type AggregateOption func(*Aggregate)

// WithDebug raises log verbosity while the aggregate runs.
// It never changes execution semantics.
func WithDebug(debug bool) AggregateOption {
	return func(a *Aggregate) { a.debug = debug }
}

// Name returns the registered name.
func (a *Aggregate) Name() string { return a.name }

// Root returns the graph bound to the aggregate.
func (a *Aggregate) Root() Node { return a.root }

// Debug reports whether the aggregate was registered with the debug flag.
func (a *Aggregate) Debug() bool { return a.debug }

// Kind implements Node.
func (a *Aggregate) Kind() NodeKind { return KindAggregate }

// Label implements Node.
func (a *Aggregate) Label() string { return a.name }

// Children implements Node.
func (a *Aggregate) Children() []Node { return []Node{a.root} }

func (a *Aggregate) node() {}
