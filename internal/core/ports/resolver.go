package ports

// InputResolver defines the interface for resolving input files.
//
//go:generate mockgen -destination=mocks/mock_resolver.go -package=mocks -source=resolver.go
type InputResolver interface {
	// ResolveInputs expands the given glob patterns relative to dir into a
	// sorted list of file paths relative to dir. Patterns starting with "!"
	// exclude matches.
	ResolveInputs(patterns []string, dir string) ([]string, error)
}
