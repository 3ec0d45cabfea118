package tracker

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.debug {
		slog.Debug(spew.Sdump(msg))
	}

	switch msg := msg.(type) {
	case tickMsg:
		m.registry.Tick(time.Time(msg))

		return m, tick()
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeymap.quit):
		m.quitting = true

		return m, tea.Quit
	case key.Matches(msg, defaultKeymap.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, defaultKeymap.down):
		if m.cursor < len(m.registry.Sessions())-1 {
			m.cursor++
		}
	case key.Matches(msg, defaultKeymap.pause):
		m.apply(func(id string, now time.Time) error {
			_, err := m.engine.Pause(id, m.userID, now)
			return err
		})
	case key.Matches(msg, defaultKeymap.resume):
		m.apply(func(id string, now time.Time) error {
			_, err := m.engine.Resume(id, m.userID, now)
			return err
		})
	case key.Matches(msg, defaultKeymap.stop):
		m.apply(func(id string, now time.Time) error {
			_, err := m.engine.Stop(id, m.userID, now)
			return err
		})
	}

	return m, nil
}

// apply runs a lifecycle action against the session under the cursor and
// reloads the registry so frozen durations are recomputed on state change.
func (m *Model) apply(fn func(id string, now time.Time) error) {
	sessions := m.registry.Sessions()
	if len(sessions) == 0 || m.cursor >= len(sessions) {
		return
	}

	now := time.Now()

	m.err = fn(sessions[m.cursor].ID, now)
	if m.err != nil {
		return
	}

	m.err = m.registry.Refresh(now)

	if m.cursor >= len(m.registry.Sessions()) && m.cursor > 0 {
		m.cursor--
	}
}
