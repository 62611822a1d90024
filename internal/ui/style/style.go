// Package style holds the colors and icons shared by every renderer and the logger.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Accent = lipgloss.Color("#E8590C")
	Slate  = lipgloss.Color("#667085")
	White  = lipgloss.Color("#FFFFFF")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
	Circle  = "○"
	Arrow   = "→"
)

// Text styles built on the palette.
var (
	Title   = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	Muted   = lipgloss.NewStyle().Foreground(Slate)
	Success = lipgloss.NewStyle().Foreground(Green)
	Failure = lipgloss.NewStyle().Foreground(Red)
)

// StatusIcon returns the icon for a task state.
func StatusIcon(done, failed bool) string {
	switch {
	case failed:
		return Cross
	case done:
		return Check
	default:
		return Circle
	}
}
