package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/crmboard/models"
	"github.com/harperreed/crmboard/pipeline"
	"github.com/harperreed/crmboard/viz"
)

const minColumnWidth = 16

var (
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1)

	selectedCardStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

func (m Model) renderBoardView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("CRM PIPELINE"))
	s.WriteString("\n")

	if m.searching {
		s.WriteString(m.search.View())
		s.WriteString("\n")
	} else if q := m.search.Value(); q != "" {
		s.WriteString(mutedStyle.Render(fmt.Sprintf("filter: %q (esc clears)", q)))
		s.WriteString("\n")
	}

	s.WriteString(m.renderColumns())
	s.WriteString("\n")
	s.WriteString(m.renderStatusLine())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return s.String()
}

func (m Model) columnWidth() int {
	if len(m.board) == 0 {
		return minColumnWidth
	}
	w := m.width/len(m.board) - 2
	if w < minColumnWidth {
		return minColumnWidth
	}
	return w
}

func (m Model) renderColumns() string {
	if len(m.board) == 0 {
		return mutedStyle.Render("Loading board...")
	}

	width := m.columnWidth()
	hovered, hovering := m.drag.Candidate()
	dragged, dragging := m.drag.Deal()

	rendered := make([]string, 0, len(m.board))
	for i, col := range m.board {
		var body strings.Builder
		body.WriteString(lipgloss.NewStyle().Bold(true).Render(string(col.Stage)))
		body.WriteString("\n")
		body.WriteString(mutedStyle.Render(fmt.Sprintf("%d · %s", col.Count, viz.FormatMoney(col.TotalValue))))
		body.WriteString("\n")

		for j, deal := range col.Deals {
			body.WriteString("\n")
			body.WriteString(m.renderCard(deal, width-2, i == m.column && j == m.row && !dragging, dragging && deal.ID == dragged.ID))
		}

		color := lipgloss.Color(viz.VariantColor(viz.StageVariant(col.Stage)))
		style := lipgloss.NewStyle().
			Width(width).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color)
		if hovering && col.Stage == hovered {
			style = style.Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("170"))
		} else if i == m.column {
			style = style.Border(lipgloss.DoubleBorder())
		}
		rendered = append(rendered, style.Render(body.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderCard(deal models.Deal, width int, selected, dragged bool) string {
	title := truncate(deal.Title, width-2)
	if dragged {
		title = "» " + truncate(deal.Title, width-4)
	}
	lines := []string{
		title,
		fmt.Sprintf("%s %d%%", viz.FormatMoney(deal.Value), deal.Probability),
	}
	if name := m.names[deal.ContactID]; name != "" {
		lines = append(lines, truncate(name, width-2))
	}

	style := cardStyle
	if selected || dragged {
		style = selectedCardStyle
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatusLine() string {
	switch m.drag.State() {
	case pipeline.Dragging:
		deal, _ := m.drag.Deal()
		return statusStyle.Render(fmt.Sprintf("Dragging %q: move to a stage, space to drop, esc to cancel", deal.Title))
	case pipeline.HoveringTarget:
		deal, _ := m.drag.Deal()
		stage, _ := m.drag.Candidate()
		return statusStyle.Render(fmt.Sprintf("Drop %q on %s?", deal.Title, stage))
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}

func truncate(s string, n int) string {
	if n <= 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// selectedDeal returns the deal under the cursor.
func (m Model) selectedDeal() (models.Deal, bool) {
	if m.column < 0 || m.column >= len(m.board) {
		return models.Deal{}, false
	}
	deals := m.board[m.column].Deals
	if m.row < 0 || m.row >= len(deals) {
		return models.Deal{}, false
	}
	return deals[m.row], true
}

// followDeal keeps the cursor on deal after the board reloads.
func (m *Model) followDeal(deal models.Deal) {
	m.focusID = deal.ID
}

func (m *Model) clampCursor() {
	if m.focusID != 0 {
		for i, col := range m.board {
			for j, deal := range col.Deals {
				if deal.ID == m.focusID {
					m.column, m.row = i, j
				}
			}
		}
		m.focusID = 0
	}
	if m.column >= len(m.board) {
		m.column = len(m.board) - 1
	}
	if m.column < 0 {
		m.column = 0
	}
	if len(m.board) == 0 {
		m.row = 0
		return
	}
	if n := len(m.board[m.column].Deals); m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	dragging := m.drag.State() != pipeline.Idle

	switch {
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
		if key.Matches(msg, m.keys.Left) && m.column > 0 {
			m.column--
		}
		if key.Matches(msg, m.keys.Right) && m.column < len(m.board)-1 {
			m.column++
		}
		if dragging && m.column < len(m.board) {
			m.err = m.drag.DragOver(m.board[m.column].Stage)
		} else {
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.Up):
		if !dragging && m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.Down):
		if !dragging {
			m.row++
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.Grab):
		if !dragging {
			deal, ok := m.selectedDeal()
			if !ok {
				return m, nil
			}
			m.status = ""
			m.err = m.drag.DragStart(deal)
			return m, nil
		}
		req, err := m.drag.Drop()
		if err != nil {
			m.err = err
			return m, nil
		}
		if req == nil {
			m.status = "Deal already in that stage"
			m.clampCursor()
			return m, nil
		}
		return m, m.moveDeal(req)
	case key.Matches(msg, m.keys.Leave):
		if dragging {
			m.err = m.drag.DragLeave()
		}
	case key.Matches(msg, m.keys.Cancel):
		if dragging {
			m.err = m.drag.DragEnd()
			m.status = "Drag cancelled"
			m.clampCursor()
		} else if m.search.Value() != "" {
			m.search.SetValue("")
			return m, m.loadBoard()
		}
	case key.Matches(msg, m.keys.Details):
		if _, ok := m.selectedDeal(); ok && !dragging {
			m.viewMode = ViewDetail
		}
	case key.Matches(msg, m.keys.Graph):
		if !dragging {
			m.viewMode = ViewGraph
			m.graphDOT = ""
			return m, m.generateGraph()
		}
	case key.Matches(msg, m.keys.Dashboard):
		if !dragging {
			m.viewMode = ViewDashboard
		}
	case key.Matches(msg, m.keys.Search):
		if !dragging {
			m.searching = true
			cmd := m.search.Focus()
			return m, cmd
		}
	case key.Matches(msg, m.keys.Reload):
		return m, tea.Batch(m.loadBoard(), m.refresh())
	}

	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.row = 0
		return m, m.loadBoard()
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		return m, m.loadBoard()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}
