package tracker

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ryz3006/alignzo/session"
)

type keymap struct {
	up     key.Binding
	down   key.Binding
	pause  key.Binding
	resume key.Binding
	stop   key.Binding
	quit   key.Binding
}

var defaultKeymap = keymap{
	up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause"),
	),
	resume: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "resume"),
	),
	stop: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stop"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the bubbletea program that renders the live timer view.
type Model struct {
	registry *Registry
	engine   *session.Engine
	userID   string

	cursor   int
	help     help.Model
	err      error
	debug    bool
	quitting bool
}

func NewModel(
	engine *session.Engine,
	userID string,
	debug bool,
) *Model {
	return &Model{
		registry: NewRegistry(engine, userID),
		engine:   engine,
		userID:   userID,
		help:     help.New(),
		debug:    debug,
	}
}

func (m *Model) Init() tea.Cmd {
	m.err = m.registry.Refresh(time.Now())

	return tick()
}
