package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	Grab      key.Binding
	Leave     key.Binding
	Cancel    key.Binding
	Details   key.Binding
	Graph     key.Binding
	Dashboard key.Binding
	Window    key.Binding
	Search    key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev stage")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next stage")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Grab:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "grab/drop")),
		Leave:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "un-hover")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel/back")),
		Details:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Graph:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "graph")),
		Dashboard: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "board/dashboard")),
		Window:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "next window")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Grab, k.Details, k.Dashboard, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Grab, k.Leave, k.Cancel},
		{k.Details, k.Graph, k.Dashboard, k.Window},
		{k.Search, k.Reload, k.Help, k.Quit},
	}
}
