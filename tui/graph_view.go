package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/crmboard/viz"
)

func (m Model) renderGraphView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("PIPELINE GRAPH"))
	s.WriteString("\n\n")

	switch {
	case m.err != nil && m.graphDOT == "":
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	case m.graphDOT == "":
		s.WriteString("Generating graph...\n")
	default:
		s.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Render(m.graphDOT))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Esc: Back • q: Quit"))

	return s.String()
}

func (m Model) handleGraphKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		m.viewMode = ViewBoard
		m.graphDOT = ""
	}
	return m, nil
}

func (m Model) generateGraph() tea.Cmd {
	board, names := m.board, m.names
	return func() tea.Msg {
		dot, err := viz.PipelineGraph(m.ctx, board, names)
		return graphMsg{dot: dot, err: err}
	}
}
