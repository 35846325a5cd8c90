// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Kanban pipeline board with keyboard drag and drop, deal details, graph, and dashboard views
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/models"
	"github.com/harperreed/crmboard/pipeline"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewBoard ViewMode = iota
	ViewDetail
	ViewGraph
	ViewDashboard
)

// Model is the main bubbletea model
type Model struct {
	ctx       context.Context
	svc       *crm.Service
	refresher *crm.Refresher
	viewMode  ViewMode

	// Board state
	board   []pipeline.Column
	names   map[int64]string
	column  int
	row     int
	focusID int64
	drag    pipeline.DragMachine

	// Search state
	search    textinput.Model
	searching bool

	// Graph view state
	graphDOT string

	// Dashboard state
	window     analytics.Window
	dashboard  analytics.Dashboard
	hasDash    bool
	generation uint64

	keys   keyMap
	help   help.Model
	status string
	err    error
	width  int
	height int
}

// NewModel creates a new TUI model. refresher may be nil, in which case
// the dashboard is computed on demand.
func NewModel(ctx context.Context, svc *crm.Service, refresher *crm.Refresher, window analytics.Window) Model {
	search := textinput.New()
	search.Placeholder = "search deals"
	search.CharLimit = 64

	if window == "" {
		window = analytics.ThisMonth
	}
	return Model{
		ctx:       ctx,
		svc:       svc,
		refresher: refresher,
		viewMode:  ViewBoard,
		names:     map[int64]string{},
		search:    search,
		window:    window,
		keys:      defaultKeys(),
		help:      help.New(),
		width:     120,
		height:    30,
	}
}

// Run starts the full-screen program. Dashboard refreshes are pushed into
// the program as they complete.
func Run(ctx context.Context, svc *crm.Service, window analytics.Window, interval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var program *tea.Program
	refresher := crm.NewRefresher(svc, window, interval, func(r crm.RefreshResult) {
		if program != nil {
			go program.Send(dashboardMsg(r))
		}
	})
	program = tea.NewProgram(NewModel(ctx, svc, refresher, window), tea.WithAltScreen(), tea.WithContext(ctx))

	refreshed := make(chan struct{})
	go func() {
		refresher.Run(ctx)
		close(refreshed)
	}()
	_, err := program.Run()
	cancel()
	<-refreshed
	return err
}

type boardLoadedMsg struct {
	board []pipeline.Column
	names map[int64]string
	err   error
}

type dealMovedMsg struct {
	deal models.Deal
	err  error
}

type graphMsg struct {
	dot string
	err error
}

type dashboardMsg crm.RefreshResult

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadBoard(), m.loadDashboard())
}

func (m Model) loadBoard() tea.Cmd {
	query := m.search.Value()
	return func() tea.Msg {
		snap, err := m.svc.Snapshot(m.ctx)
		if err != nil {
			return boardLoadedMsg{err: err}
		}
		names := crm.ContactNames(snap.Contacts)
		board, err := pipeline.Summarize(crm.FilterDeals(snap.Deals, names, query))
		return boardLoadedMsg{board: board, names: names, err: err}
	}
}

func (m Model) loadDashboard() tea.Cmd {
	if m.refresher != nil {
		return nil
	}
	window := m.window
	return func() tea.Msg {
		d, err := m.svc.Dashboard(m.ctx, window)
		return dashboardMsg{Window: window, Dashboard: d, Err: err}
	}
}

func (m Model) moveDeal(req *pipeline.MoveRequest) tea.Cmd {
	return func() tea.Msg {
		deal, err := m.svc.MoveDeal(m.ctx, req.Deal.ID, req.Target)
		return dealMovedMsg{deal: deal, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case boardLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.board = msg.board
			m.names = msg.names
			m.clampCursor()
		}
		return m, nil
	case dealMovedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = "Moved " + msg.deal.Title + " to " + string(msg.deal.Stage)
		m.followDeal(msg.deal)
		return m, tea.Batch(m.loadBoard(), m.refresh())
	case graphMsg:
		m.err = msg.err
		m.graphDOT = msg.dot
		return m, nil
	case dashboardMsg:
		// Results from a window we already left are ignored.
		if msg.Window != m.window || msg.Generation < m.generation {
			return m, nil
		}
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.dashboard = msg.Dashboard
		m.hasDash = true
		m.generation = msg.Generation
		return m, nil
	}
	return m, nil
}

// refresh recomputes the dashboard after a write.
func (m Model) refresh() tea.Cmd {
	if m.refresher != nil {
		return func() tea.Msg {
			m.refresher.Trigger(m.ctx)
			return nil
		}
	}
	return m.loadDashboard()
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewBoard:
		return m.renderBoardView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewDashboard:
		return m.renderDashboardView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewBoard:
		return m.handleBoardKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewDashboard:
		return m.handleDashboardKeys(msg)
	}

	return m, nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("35"))
)
