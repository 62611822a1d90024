package ports

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Debug logs a message that is only shown in debug mode.
	Debug(msg string, args ...any)
	// Info logs an informational message.
	Info(msg string, args ...any)
	// Warn logs a warning.
	Warn(msg string, args ...any)
	// Error logs an error together with its cause chain.
	Error(err error)
	// SetDebug toggles debug verbosity.
	SetDebug(enabled bool)
	// DebugEnabled reports whether debug verbosity is on.
	DebugEnabled() bool
}
