package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/crmboard/models"
	"github.com/harperreed/crmboard/viz"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("DEAL DETAILS"))
	s.WriteString("\n\n")

	deal, ok := m.selectedDeal()
	if !ok {
		s.WriteString("No deal selected\n")
	} else {
		s.WriteString(m.renderDealDetail(deal))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Esc: Back • g: Graph • q: Quit"))

	return s.String()
}

func (m Model) renderDealDetail(deal models.Deal) string {
	var s strings.Builder

	field := func(label, value string) {
		if value == "" {
			return
		}
		s.WriteString(fieldLabelStyle.Render(label))
		s.WriteString(fieldValueStyle.Render(value))
		s.WriteString("\n")
	}

	stageColor := lipgloss.Color(viz.VariantColor(viz.StageVariant(deal.Stage)))

	field("Title:", deal.Title)
	s.WriteString(fieldLabelStyle.Render("Stage:"))
	s.WriteString(lipgloss.NewStyle().Foreground(stageColor).Render(string(deal.Stage)))
	s.WriteString("\n")
	field("Value:", viz.FormatMoney(deal.Value))
	field("Probability:", fmt.Sprintf("%d%%", deal.Probability))
	field("Contact:", m.names[deal.ContactID])
	if deal.SalesRep != "" {
		field("Sales rep:", models.SalesRepName(deal.SalesRep))
	}
	if deal.ExpectedCloseDate != nil {
		field("Expected close:", deal.ExpectedCloseDate.Format("2006-01-02"))
	}
	field("Created:", deal.CreatedAt.Format("2006-01-02 15:04"))
	field("Updated:", deal.UpdatedAt.Format("2006-01-02 15:04"))
	field("Description:", deal.Description)

	return s.String()
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.viewMode = ViewBoard
	case key.Matches(msg, m.keys.Graph):
		m.viewMode = ViewGraph
		m.graphDOT = ""
		return m, m.generateGraph()
	}
	return m, nil
}
