// Package report summarizes work logs for billing and progress reporting.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/hako/durafmt"
	"github.com/maruel/natural"
	"github.com/pterm/pterm"

	"github.com/ryz3006/alignzo/internal/models"
	"github.com/ryz3006/alignzo/internal/timeutil"
	"github.com/ryz3006/alignzo/internal/ui"
)

const barChartChar = "▇"

const noWorkLogsMsg = "No work logs found for the specified time range"

// Summary aggregates a set of work logs.
type Summary struct {
	totalLogged time.Duration
	totalPaused time.Duration
	count       int
	byProject   map[string]time.Duration
	byTask      map[string]time.Duration
}

// Generate computes a summary over the given work logs. Durations are read
// from the frozen values on each log, never recomputed.
func Generate(workLogs []*models.WorkLog) *Summary {
	s := &Summary{
		byProject: make(map[string]time.Duration),
		byTask:    make(map[string]time.Duration),
	}

	for _, workLog := range workLogs {
		s.count++
		s.totalLogged += workLog.Duration

		// Wall-clock time beyond the logged duration was spent paused.
		wall := workLog.EndTime.Sub(workLog.StartTime)
		if wall > workLog.Duration {
			s.totalPaused += wall - workLog.Duration
		}

		s.byProject[workLog.ProjectID] += workLog.Duration

		task := workLog.TaskCategory
		if task == "" {
			task = "uncategorized"
		}

		s.byTask[task] += workLog.Duration
	}

	return s
}

// Render writes the summary to the given writer.
func (s *Summary) Render(w io.Writer) {
	if s.count == 0 {
		pterm.Info.Println(noWorkLogsMsg)
		return
	}

	hrs, mins := timeutil.MinsToHoursAndMins(int(s.totalLogged.Minutes()))

	fmt.Fprintln(w, ui.Highlight("Work log summary"))
	fmt.Fprintf(
		w,
		"Logged: %s across %d work logs (paused: %s)\n",
		ui.Green(format(s.totalLogged)),
		s.count,
		ui.Magenta(format(s.totalPaused)),
	)
	fmt.Fprintf(w, "Billable: %dh %02dm\n\n", hrs, mins)

	s.renderBreakdown(w, "PROJECT", s.byProject)
	s.renderBreakdown(w, "TASK CATEGORY", s.byTask)
}

func (s *Summary) renderBreakdown(
	w io.Writer,
	header string,
	totals map[string]time.Duration,
) {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}

	sort.Sort(natural.StringSlice(keys))

	tableBody := make([][]string, 0, len(keys)+1)
	tableBody = append(tableBody, []string{header, "LOGGED", ""})

	for _, k := range keys {
		tableBody = append(tableBody, []string{
			k,
			format(totals[k]),
			bar(totals[k], s.totalLogged),
		})
	}

	ui.PrintTable(tableBody, w)
}

// bar renders a proportional bar for a duration relative to the total.
func bar(d, total time.Duration) string {
	if total == 0 {
		return ""
	}

	const width = 20

	n := int(float64(d) / float64(total) * width)
	if n == 0 && d > 0 {
		n = 1
	}

	return ui.Cyan(strings.Repeat(barChartChar, n))
}

func format(d time.Duration) string {
	if d == 0 {
		return "0 seconds"
	}

	return durafmt.Parse(d.Round(time.Second)).LimitFirstN(2).String()
}
