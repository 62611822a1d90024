package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigConflict is returned when two option layers supply incompatible kinds for the same key.
	ErrConfigConflict = zerr.New("conflicting option types")

	// ErrOptionsInvalid is returned when resolved options do not match the schema of the task's action.
	ErrOptionsInvalid = zerr.New("invalid task options")

	// ErrUnknownLayer is returned when a task extends a shared layer that is not defined.
	ErrUnknownLayer = zerr.New("unknown option layer")

	// ErrUnknownAction is returned when a task names an action kind that has no implementation.
	ErrUnknownAction = zerr.New("unknown action")

	// ErrUnknownTask is returned when a graph references a task that is not defined.
	ErrUnknownTask = zerr.New("unknown task")

	// ErrUnknownAggregate is returned when a graph embeds an aggregate that has not been declared yet.
	ErrUnknownAggregate = zerr.New("unknown aggregate, aggregates must be declared before they are embedded")

	// ErrAmbiguousList is returned when a bare list is used where a graph node is expected.
	ErrAmbiguousList = zerr.New("bare list is ambiguous, wrap it in 'series' or 'parallel'")

	// ErrInvalidNode is returned when a graph node definition cannot be interpreted.
	ErrInvalidNode = zerr.New("invalid graph node")

	// ErrNilNode is returned when a graph contains a nil node.
	ErrNilNode = zerr.New("graph contains a nil node")

	// ErrInvalidName is returned when a task or aggregate name is empty or contains invalid characters.
	ErrInvalidName = zerr.New("invalid name")

	// ErrRegistryFrozen is returned when registering an aggregate after the setup phase has ended.
	ErrRegistryFrozen = zerr.New("registry is frozen")

	// ErrAggregateNotFound is returned when a requested aggregate is not registered.
	ErrAggregateNotFound = zerr.New("aggregate not found")

	// ErrNoAggregateSpecified is returned when no aggregate name is given to run.
	ErrNoAggregateSpecified = zerr.New("no aggregate specified")

	// ErrConfigNotFound is returned when the project file cannot be found.
	ErrConfigNotFound = zerr.New("could not find recipe.yaml")

	// ErrConfigReadFailed is returned when the project file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the project file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigSchemaInvalid is returned when the project file does not match the document schema.
	ErrConfigSchemaInvalid = zerr.New("config file does not match schema")

	// ErrTaskExecutionFailed is returned when a task action fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrAggregateFailure is matched by failures surfaced from series and parallel nodes.
	ErrAggregateFailure = zerr.New("one or more steps failed")

	// ErrBuildExecutionFailed is returned when running an aggregate fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrPathOutsideRoot is returned when an action would touch a path outside the project root.
	ErrPathOutsideRoot = zerr.New("path is outside project root")

	// ErrCopyFailed is returned when the copy action cannot copy a file.
	ErrCopyFailed = zerr.New("failed to copy file")

	// ErrCleanFailed is returned when the clean action cannot remove a path.
	ErrCleanFailed = zerr.New("failed to remove path")

	// ErrEmptyCommand is returned when an exec task has no command.
	ErrEmptyCommand = zerr.New("command is empty")

	// ErrUnknownOutputMode is returned when the requested output mode is not recognised.
	ErrUnknownOutputMode = zerr.New("unknown output mode")

	// ErrWatchFailed is returned when the file watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to start watcher")
)

// Annotate attaches a key/value pair to a sentinel error. The result still
// matches the sentinel with errors.Is.
func Annotate(sentinel error, key string, value any) error {
	return zerr.With(zerr.Wrap(sentinel, ""), key, value)
}
