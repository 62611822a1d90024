package domain

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// NodeKind identifies the variant of a graph node.
type NodeKind string

const (
	// KindTask is a leaf node wrapping a single task.
	KindTask NodeKind = "task"
	// KindSeries runs its children strictly in order.
	KindSeries NodeKind = "series"
	// KindParallel runs its children concurrently.
	KindParallel NodeKind = "parallel"
	// KindAggregate is a named, registered graph.
	KindAggregate NodeKind = "aggregate"
)

// Node is a vertex of an execution graph.
// It is implemented by *Task, *Series, *Parallel and *Aggregate only.
type Node interface {
	Kind() NodeKind
	Label() string
	Children() []Node
	node()
}

// Series is a composite node whose children run strictly in listed order.
type Series struct {
	label    string
	children []Node
}

// NewSeries creates a series over children.
func NewSeries(children ...Node) *Series {
	return &Series{children: append([]Node(nil), children...)}
}

// Named returns a copy of the series carrying label.
func (s *Series) Named(label string) *Series {
	return &Series{label: label, children: s.children}
}

// Kind implements Node.
func (s *Series) Kind() NodeKind { return KindSeries }

// Label implements Node.
func (s *Series) Label() string {
	if s.label == "" {
		return string(KindSeries)
	}
	return s.label
}

// Children implements Node.
func (s *Series) Children() []Node { return append([]Node(nil), s.children...) }

func (s *Series) node() {}

// Parallel is a composite node whose children all start together.
type Parallel struct {
	label    string
	children []Node
}

// NewParallel creates a parallel group over children.
func NewParallel(children ...Node) *Parallel {
	return &Parallel{children: append([]Node(nil), children...)}
}

// Named returns a copy of the parallel group carrying label.
func (p *Parallel) Named(label string) *Parallel {
	return &Parallel{label: label, children: p.children}
}

// Kind implements Node.
func (p *Parallel) Kind() NodeKind { return KindParallel }

// Label implements Node.
func (p *Parallel) Label() string {
	if p.label == "" {
		return string(KindParallel)
	}
	return p.label
}

// Children implements Node.
func (p *Parallel) Children() []Node { return append([]Node(nil), p.children...) }

func (p *Parallel) node() {}

// ValidateNode checks that the graph rooted at n contains no nil nodes.
func ValidateNode(n Node) error {
	return validateNode(n, "")
}

func validateNode(n Node, path string) error {
	if isNil(n) {
		return Annotate(ErrNilNode, "path", rootPath(path))
	}
	current := path
	if current == "" {
		current = n.Label()
	}
	for i, child := range n.Children() {
		childPath := current + "/" + strconv.Itoa(i+1)
		if !isNil(child) {
			childPath = ChildPath(n, current, i, child)
		}
		if err := validateNode(child, childPath); err != nil {
			return err
		}
	}
	return nil
}

func rootPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Task:
		return v == nil
	case *Series:
		return v == nil
	case *Parallel:
		return v == nil
	case *Aggregate:
		return v == nil
	}
	return false
}

// ChildPath returns the graph path of the child at zero-based index under parent.
// Paths look like "publish/1:prep-release/2:docs". The root of an aggregate
// shares the aggregate's path unless it is itself an aggregate.
func ChildPath(parent Node, parentPath string, index int, child Node) string {
	if parent.Kind() == KindAggregate && child.Kind() != KindAggregate {
		return parentPath
	}
	return fmt.Sprintf("%s/%d:%s", parentPath, index+1, child.Label())
}

// Tasks yields every task reachable from n, depth-first in listed order.
// A task embedded more than once is yielded at each occurrence.
func Tasks(n Node) iter.Seq[*Task] {
	return func(yield func(*Task) bool) {
		walkTasks(n, yield)
	}
}

func walkTasks(n Node, yield func(*Task) bool) bool {
	if isNil(n) {
		return true
	}
	if t, ok := n.(*Task); ok {
		return yield(t)
	}
	for _, child := range n.Children() {
		if !walkTasks(child, yield) {
			return false
		}
	}
	return true
}

// Describe renders the graph rooted at n as an indented tree.
func Describe(n Node) string {
	var sb strings.Builder
	describe(&sb, n, 0)
	return sb.String()
}

func describe(sb *strings.Builder, n Node, depth int) {
	if isNil(n) {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	if n.Kind() == KindTask {
		sb.WriteString(n.Label())
	} else {
		fmt.Fprintf(sb, "%s (%s)", n.Label(), n.Kind())
	}
	sb.WriteByte('\n')
	for _, child := range n.Children() {
		describe(sb, child, depth+1)
	}
}
