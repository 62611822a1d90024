// Package tui provides the interactive renderer: a task tree beside a log pane.
package tui

import (
	"io"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/recipe/internal/ui/output"
)

// NewModel creates a new TUI model with default settings.
// w is the terminal the program renders to; a nil w means stderr.
func NewModel(w io.Writer) *Model {
	lipgloss.SetColorProfile(output.New(w).Profile)

	return &Model{
		Rows:       make([]*Row, 0),
		taskRows:   make(map[string]*Row),
		spans:      make(map[string]*Row),
		Viewport:   viewport.New(0, 0),
		AutoScroll: true,
		FollowMode: true,
	}
}
