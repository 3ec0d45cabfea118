package tracker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/ryz3006/alignzo/internal/models"
	"github.com/ryz3006/alignzo/internal/timeutil"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#B0DB43")).
			MarginBottom(1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#12EAEA"))

	runningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B0DB43"))

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C492B1"))

	clockStyle = lipgloss.NewStyle().Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			MarginTop(1)
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Live sessions"))
	s.WriteString("\n")

	sessions := m.registry.Sessions()

	if len(sessions) == 0 {
		s.WriteString("No running or paused sessions\n")
	}

	for i, sess := range sessions {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		status := runningStyle.Render("running")
		if sess.Status == models.StatusPaused {
			status = pausedStyle.Render("paused ")
		}

		clock := clockStyle.Render(
			timeutil.FormatClock(m.registry.Elapsed(sess.ID)),
		)

		desc := sess.Description
		if desc == "" {
			desc = "-"
		}

		s.WriteString(fmt.Sprintf(
			"%s%s  %s  %-12s %s\n",
			cursor,
			clock,
			status,
			sess.ProjectID,
			desc,
		))
	}

	s.WriteString("\n" + m.help.ShortHelpView([]key.Binding{
		defaultKeymap.pause,
		defaultKeymap.resume,
		defaultKeymap.stop,
		defaultKeymap.quit,
	}))

	if m.err != nil {
		s.WriteString(errStyle.Render(m.err.Error()))
	}

	s.WriteString("\n")

	return s.String()
}
