package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/recipe/internal/adapters/logger"
)

func TestPrettyHandler_Levels(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		want  string
	}{
		{name: "debug filtered", level: slog.LevelDebug, want: ""},
		{name: "info", level: slog.LevelInfo, want: "message\n"},
		{name: "warn", level: slog.LevelWarn, want: "! message\n"},
		{name: "error", level: slog.LevelError, want: "✗ message\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")
			buf := &bytes.Buffer{}
			lg := slog.New(logger.NewPrettyHandler(buf, nil))

			lg.Log(t.Context(), tt.level, "message")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_SharedLevel(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	level := &slog.LevelVar{}
	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: level}))

	lg.Debug("hidden")
	level.Set(slog.LevelDebug)
	lg.Debug("shown")

	assert.Equal(t, "● shown\n", buf.String())
}

func TestPrettyHandler_AttrsAndGroups(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil))

	lg.With("a", "1").WithGroup("task").WithGroup("opts").Info("msg", "b", 2)

	assert.Equal(t, "msg a=1 task.opts.b=2\n", buf.String())
}
