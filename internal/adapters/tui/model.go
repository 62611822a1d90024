package tui

import (
	"bytes"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/recipe/internal/core/domain"
)

const (
	taskListWidthRatio = 0.3
	logPaneBorderWidth = 4
)

// TaskStatus represents the current state of a row.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to start.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusDone indicates the task completed successfully.
	StatusDone TaskStatus = "Done"
	// StatusError indicates the task failed.
	StatusError TaskStatus = "Error"
)

// Row is one plan step in the task list.
type Row struct {
	Name   string
	Path   string
	Depth  int
	Kind   domain.NodeKind
	Status TaskStatus
	Logs   bytes.Buffer
	Start  time.Time
	End    time.Time
	Err    error
}

// Model represents the main TUI state.
type Model struct {
	Aggregate   string
	Rows        []*Row
	Viewport    viewport.Model
	SelectedIdx int
	ListOffset  int
	ListHeight  int
	AutoScroll  bool
	FollowMode  bool

	taskRows map[string]*Row
	spans    map[string]*Row
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Selected returns the selected row, or nil when the list is empty.
func (m *Model) Selected() *Row {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Rows) {
		return m.Rows[m.SelectedIdx]
	}
	return nil
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // message dispatch
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		listWidth := int(float64(msg.Width) * taskListWidthRatio)
		headerHeight := lipgloss.Height(titleStyle.Render("LOGS"))
		m.Viewport.Width = msg.Width - listWidth - logPaneBorderWidth
		m.Viewport.Height = msg.Height - headerHeight
		m.ListHeight = msg.Height - lipgloss.Height(titleStyle.Render("TASKS")+"\n\n")
		m.ensureVisible()
		m.refreshLogs()

	case MsgInitPlan:
		m.initPlan(msg.Plan)

	case MsgTaskStart:
		row, ok := m.taskRows[msg.Path]
		if !ok {
			return m, nil
		}
		row.Status = StatusRunning
		row.Start = msg.StartTime
		m.spans[msg.SpanID] = row
		if m.FollowMode {
			m.selectRow(row)
		}

	case MsgTaskLog:
		if row, ok := m.spans[msg.SpanID]; ok {
			row.Logs.Write(msg.Data)
			if row == m.Selected() {
				m.refreshLogs()
			}
		}

	case MsgTaskComplete:
		if row, ok := m.spans[msg.SpanID]; ok {
			row.End = msg.EndTime
			row.Err = msg.Err
			if msg.Err != nil {
				row.Status = StatusError
			} else {
				row.Status = StatusDone
			}
			delete(m.spans, msg.SpanID)
		}
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Interrupt
	case "q":
		return tea.Quit
	case "k", "up":
		m.moveSelection(-1)
	case "j", "down":
		m.moveSelection(1)
	case "esc":
		m.FollowMode = true
		for _, row := range m.Rows {
			if row.Kind == domain.KindTask && row.Status == StatusRunning {
				m.selectRow(row)
				break
			}
		}
	default:
		var cmd tea.Cmd
		m.Viewport, cmd = m.Viewport.Update(msg)
		m.AutoScroll = m.Viewport.AtBottom()
		return cmd
	}
	return nil
}

func (m *Model) initPlan(plan domain.Plan) {
	m.Aggregate = plan.Aggregate
	m.Rows = make([]*Row, len(plan.Steps))
	m.taskRows = make(map[string]*Row)
	m.spans = make(map[string]*Row)
	m.SelectedIdx = 0
	m.ListOffset = 0

	for i, step := range plan.Steps {
		row := &Row{
			Name:   step.Name,
			Path:   step.Path,
			Depth:  step.Depth,
			Kind:   step.Kind,
			Status: StatusPending,
		}
		m.Rows[i] = row
		if step.Kind == domain.KindTask {
			m.taskRows[step.Path] = row
		}
	}
	m.refreshLogs()
}

// moveSelection moves to the next task row in direction dir and leaves follow mode.
func (m *Model) moveSelection(dir int) {
	for i := m.SelectedIdx + dir; i >= 0 && i < len(m.Rows); i += dir {
		if m.Rows[i].Kind == domain.KindTask {
			m.FollowMode = false
			m.AutoScroll = true
			m.SelectedIdx = i
			m.ensureVisible()
			m.refreshLogs()
			return
		}
	}
}

func (m *Model) selectRow(row *Row) {
	for i, r := range m.Rows {
		if r == row {
			m.SelectedIdx = i
			break
		}
	}
	m.AutoScroll = true
	m.ensureVisible()
	m.refreshLogs()
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}

func (m *Model) refreshLogs() {
	row := m.Selected()
	if row == nil {
		m.Viewport.SetContent("")
		return
	}
	m.Viewport.SetContent(row.Logs.String())
	if m.AutoScroll {
		m.Viewport.GotoBottom()
	}
}

// rowStatus derives the status of composite rows from the tasks beneath them.
func (m *Model) rowStatus(idx int) TaskStatus {
	row := m.Rows[idx]
	if row.Kind == domain.KindTask {
		return row.Status
	}

	var running, failed bool
	done, total := 0, 0
	for _, child := range m.Rows[idx+1:] {
		if child.Depth <= row.Depth {
			break
		}
		if child.Kind != domain.KindTask {
			continue
		}
		total++
		switch child.Status {
		case StatusRunning:
			running = true
		case StatusError:
			failed = true
		case StatusDone:
			done++
		case StatusPending:
		}
	}

	switch {
	case failed:
		return StatusError
	case running:
		return StatusRunning
	case total > 0 && done == total:
		return StatusDone
	default:
		return StatusPending
	}
}
