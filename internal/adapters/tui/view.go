package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/ui/style"
)

// View renders the UI.
func (m *Model) View() string {
	if m.ListHeight <= 0 {
		return "Initializing..."
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.taskList(),
		m.logPane(),
	)
}

func (m *Model) taskList() string {
	var s strings.Builder

	title := "TASKS"
	if m.Aggregate != "" {
		title = strings.ToUpper(m.Aggregate)
	}
	s.WriteString(titleStyle.Render(title) + "\n\n")

	end := min(m.ListOffset+m.ListHeight, len(m.Rows))
	start := min(m.ListOffset, end)
	for i := start; i < end; i++ {
		s.WriteString(m.renderRow(i) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderRow(idx int) string {
	row := m.Rows[idx]
	status := m.rowStatus(idx)
	indent := strings.Repeat("  ", row.Depth)

	if row.Kind != domain.KindTask {
		label := fmt.Sprintf("%s%s %s (%s)", indent, statusIcon(status), row.Name, row.Kind)
		return "  " + groupStyle.Render(label)
	}

	rowStyle := statusStyle(status)
	cursor := "  "
	if idx == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if status == StatusPending || status == StatusRunning {
			rowStyle = selectedStyle
		}
	}
	return cursor + rowStyle.Render(fmt.Sprintf("%s%s %s", indent, statusIcon(status), row.Name))
}

func statusIcon(status TaskStatus) string {
	switch status {
	case StatusRunning:
		return style.Dot
	case StatusDone:
		return style.Check
	case StatusError:
		return style.Cross
	default:
		return style.Circle
	}
}

func statusStyle(status TaskStatus) lipgloss.Style {
	switch status {
	case StatusRunning:
		return taskRunningStyle
	case StatusDone:
		return taskDoneStyle
	case StatusError:
		return taskErrorStyle
	default:
		return taskPendingStyle
	}
}

func (m *Model) logPane() string {
	header := titleStyle.Render("LOGS (Waiting...)")
	if row := m.Selected(); row != nil && row.Kind == domain.KindTask {
		mode := "Manual"
		if m.FollowMode {
			mode = "Following"
		}
		header = titleStyle.Render(fmt.Sprintf("LOGS: %s (%s)", row.Path, mode))
	}

	return logStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			m.Viewport.View(),
		),
	)
}
