// Package logger implements the logging adapter on top of log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Logger implements ports.Logger using log/slog.
// Output goes through PrettyHandler unless JSON mode is enabled.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	level    *slog.LevelVar
	jsonMode bool
	output   io.Writer
}

// New creates a Logger writing human-readable lines to stderr at info level.
func New() *Logger {
	l := &Logger{
		level:  &slog.LevelVar{},
		output: os.Stderr,
	}
	l.level.Set(slog.LevelInfo)
	l.logger = slog.New(l.newHandler())
	return l
}

// Environment variables read by FromEnv.
const (
	EnvLogFormat = "RECIPE_LOG_FORMAT"
	EnvDebug     = "RECIPE_DEBUG"
)

// FromEnv creates a Logger configured by the environment.
// RECIPE_LOG_FORMAT=json selects JSON output and a truthy RECIPE_DEBUG
// enables debug verbosity before any flag is parsed.
func FromEnv(getenv func(string) string) *Logger {
	l := New()
	if strings.EqualFold(getenv(EnvLogFormat), "json") {
		l.SetJSON(true)
	}
	if debug, err := strconv.ParseBool(getenv(EnvDebug)); err == nil && debug {
		l.SetDebug(true)
	}
	return l
}

func (l *Logger) newHandler() slog.Handler {
	opts := &slog.HandlerOptions{Level: l.level}
	if l.jsonMode {
		return slog.NewJSONHandler(l.output, opts)
	}
	return NewPrettyHandler(l.output, opts)
}

// SetOutput changes the destination. A nil w selects stderr.
// The current JSON mode and level are preserved.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(l.newHandler())
}

// SetJSON switches between JSON and pretty output.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.logger = slog.New(l.newHandler())
}

// SetDebug toggles debug verbosity.
func (l *Logger) SetDebug(enable bool) {
	if enable {
		l.level.Set(slog.LevelDebug)
		return
	}
	l.level.Set(slog.LevelInfo)
}

// DebugEnabled reports whether debug messages are written.
func (l *Logger) DebugEnabled() bool {
	return l.level.Level() <= slog.LevelDebug
}

// Debug logs a diagnostic message with key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg, args...)
}

// Info logs an informational message with key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg, args...)
}

// Warn logs a warning with key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg, args...)
}

// Error logs err with its cause chain. Nil errors are ignored.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}
