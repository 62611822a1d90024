package domain

// PlanStep is one node of a flattened graph.
type PlanStep struct {
	Name  string
	Path  string
	Depth int
	Kind  NodeKind
}

// Plan is the ordered, depth-first view of an aggregate's graph.
type Plan struct {
	Aggregate string
	Steps     []PlanStep
}

// NewPlan flattens the graph of agg.
// A composite root is folded into the aggregate's own step. Task and
// aggregate roots keep a step of their own.
func NewPlan(agg *Aggregate) Plan {
	plan := Plan{Aggregate: agg.Name()}
	plan.Steps = appendSteps(plan.Steps, agg, agg.Name(), 0)
	return plan
}

func appendSteps(steps []PlanStep, n Node, path string, depth int) []PlanStep {
	if isNil(n) {
		return steps
	}
	if agg, ok := n.(*Aggregate); ok {
		steps = append(steps, PlanStep{Name: agg.Name(), Path: path, Depth: depth, Kind: KindAggregate})
		root := agg.Root()
		if isNil(root) {
			return steps
		}
		if root.Kind() == KindTask || root.Kind() == KindAggregate {
			return appendSteps(steps, root, ChildPath(agg, path, 0, root), depth+1)
		}
		for i, child := range root.Children() {
			steps = appendSteps(steps, child, ChildPath(root, path, i, child), depth+1)
		}
		return steps
	}
	steps = append(steps, PlanStep{Name: n.Label(), Path: path, Depth: depth, Kind: n.Kind()})
	for i, child := range n.Children() {
		steps = appendSteps(steps, child, ChildPath(n, path, i, child), depth+1)
	}
	return steps
}

// Tasks returns the task steps of the plan in execution order.
func (p Plan) Tasks() []PlanStep {
	var out []PlanStep
	for _, s := range p.Steps {
		if s.Kind == KindTask {
			out = append(out, s)
		}
	}
	return out
}
