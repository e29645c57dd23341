package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/desingle/desingle"
	"github.com/sokinpui/desingle/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// --- Messages ---
type summaryMsg struct {
	model.Summary
}

type errorMsg struct{ err error }

func (e errorMsg) Error() string { return e.err.Error() }

type progressMsg struct {
	current, total int
}

// --- Model ---
type Model struct {
	app      *desingle.App
	program  *tea.Program
	spinner  spinner.Model
	state    state
	summary  summaryMsg
	progress progressMsg
	err      error
}

type state int

const (
	stateProcessing state = iota
	stateSummary
	stateError
)

func New(app *desingle.App) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &Model{
		app:     app,
		spinner: s,
		state:   stateProcessing,
	}
}

// SetProgram wires the running program so the worker can push progress.
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.app.SetProgressCallback(func(current, total int) {
		p.Send(progressMsg{current: current, total: total})
	})
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runApp)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case progressMsg:
		m.progress = msg
		return m, nil

	case summaryMsg:
		m.state = stateSummary
		m.summary = msg
		return m, tea.Quit

	case errorMsg:
		m.state = stateError
		m.err = msg
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) View() string {
	switch m.state {
	case stateProcessing:
		if m.progress.total > 0 {
			return fmt.Sprintf("%s Processing [%d/%d]...", m.spinner.View(), m.progress.current, m.progress.total)
		}
		return fmt.Sprintf("%s Processing...", m.spinner.View())
	case stateError:
		return errorStyle.Render("Error: ", m.err.Error())
	case stateSummary:
		return m.renderSummary()
	default:
		return ""
	}
}

func (m *Model) renderSummary() string {
	var b strings.Builder

	if m.summary.Message != "" {
		b.WriteString(headerStyle.Render(m.summary.Message))
		b.WriteString("\n\n")
	}

	hasContent := false
	if len(m.summary.Changed) > 0 {
		hasContent = true
		b.WriteString(successStyle.Render("Changed:"))
		b.WriteString("\n")
		for _, r := range m.summary.Changed {
			b.WriteString(fmt.Sprintf("  %s: %s\n", pathStyle.Render(r.Path), faintStyle.Render(strings.Join(r.Matches, ", "))))
		}
	}
	if len(m.summary.Skipped) > 0 {
		hasContent = true
		b.WriteString(faintStyle.Render(fmt.Sprintf("Skipped %d file(s)", len(m.summary.Skipped))))
		b.WriteString("\n")
	}
	if len(m.summary.Failed) > 0 {
		hasContent = true
		b.WriteString(errorStyle.Render("Failed:"))
		b.WriteString("\n")
		for _, f := range m.summary.Failed {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}
	if hasContent {
		b.WriteString(faintStyle.Render(fmt.Sprintf("%d match(es) in %d file(s)", m.summary.Matches, len(m.summary.Changed))))
		b.WriteString("\n")
	}

	if !hasContent && m.summary.Message == "" {
		b.WriteString(faintStyle.Render("Nothing to do."))
	}

	return b.String()
}

func (m *Model) runApp() tea.Msg {
	summary, err := m.app.Execute()
	if err != nil {
		return errorMsg{err}
	}
	return summaryMsg{Summary: summary}
}
