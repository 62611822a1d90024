package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/recipe/internal/ui/style"
)

var (
	listStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(style.Slate).
			MarginRight(1).
			PaddingRight(1)

	logStyle = lipgloss.NewStyle().
			PaddingLeft(1)

	taskPendingStyle = lipgloss.NewStyle().
				Foreground(style.Slate)

	taskRunningStyle = lipgloss.NewStyle().
				Foreground(style.Accent).
				Bold(true)

	taskDoneStyle = lipgloss.NewStyle().
			Foreground(style.Green)

	taskErrorStyle = lipgloss.NewStyle().
			Foreground(style.Red)

	groupStyle = lipgloss.NewStyle().
			Foreground(style.Slate).
			Italic(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(style.Accent).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Accent).
			Foreground(style.White)
)
