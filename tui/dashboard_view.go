package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/viz"
)

func (m Model) renderDashboardView() string {
	var s strings.Builder

	tabs := make([]string, 0, len(analytics.Windows))
	for _, w := range analytics.Windows {
		if w == m.window {
			tabs = append(tabs, tabActiveStyle.Render(string(w)))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(string(w)))
		}
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	s.WriteString("\n\n")

	if !m.hasDash {
		s.WriteString("Computing dashboard...\n")
	} else {
		s.WriteString(viz.RenderDashboard(m.dashboard, m.board))
		s.WriteString(mutedStyle.Render(fmt.Sprintf("generated %s", m.dashboard.GeneratedAt.Format("15:04:05"))))
	}
	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("w: Next window • r: Refresh • Tab: Board • q: Quit"))

	return s.String()
}

func nextWindow(w analytics.Window) analytics.Window {
	for i, candidate := range analytics.Windows {
		if candidate == w {
			return analytics.Windows[(i+1)%len(analytics.Windows)]
		}
	}
	return analytics.ThisMonth
}

func (m Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Dashboard), key.Matches(msg, m.keys.Cancel):
		m.viewMode = ViewBoard
	case key.Matches(msg, m.keys.Window):
		m.window = nextWindow(m.window)
		m.hasDash = false
		m.err = nil
		if m.refresher != nil {
			refresher, ctx, window := m.refresher, m.ctx, m.window
			return m, func() tea.Msg {
				refresher.SetWindow(ctx, window)
				return nil
			}
		}
		return m, m.loadDashboard()
	case key.Matches(msg, m.keys.Reload):
		return m, m.refresh()
	}
	return m, nil
}
