package app

import (
	"fmt"
	"io"
	"time"

	"github.com/hako/durafmt"
	"github.com/pterm/pterm"

	"github.com/ryz3006/alignzo/bulk"
	"github.com/ryz3006/alignzo/internal/models"
	"github.com/ryz3006/alignzo/internal/timeutil"
	"github.com/ryz3006/alignzo/internal/ui"
)

const (
	noSessionsMsg = "No sessions found for the specified time range"
	noWorkLogsMsg = "No work logs found for the specified time range"
)

// displayTimeFormat is selected from the display config when the runtime
// environment is built.
var displayTimeFormat = timeLayout(false)

// timeLayout returns the date layout matching the configured clock style.
func timeLayout(twentyFourHour bool) string {
	if twentyFourHour {
		return "Jan 02, 2006 15:04"
	}

	return "Jan 02, 2006 03:04 PM"
}

func statusText(status models.Status) string {
	switch status {
	case models.StatusRunning:
		return ui.Green(status)
	case models.StatusPaused:
		return ui.Magenta(status)
	case models.StatusCompleted:
		return ui.Cyan(status)
	case models.StatusCancelled:
		return ui.Red(status)
	default:
		return string(status)
	}
}

// printSessionsTable prints a session table to the command-line.
func printSessionsTable(w io.Writer, sessions []*models.TimeSession) {
	if len(sessions) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return
	}

	tableBody := make([][]string, len(sessions))

	for i := range sessions {
		sess := sessions[i]

		endDate := sess.EndTime.Format(displayTimeFormat)
		if sess.EndTime.IsZero() {
			endDate = ""
		}

		end := sess.EndTime
		if end.IsZero() {
			end = time.Now()
		}

		elapsed := timeutil.ActiveDuration(
			sess.StartTime,
			end,
			sess.PausedDuration,
		)
		if sess.Status == models.StatusPaused {
			elapsed = timeutil.ActiveDuration(
				sess.StartTime,
				sess.PausedAt,
				sess.PausedDuration,
			)
		}

		row := []string{
			sess.ID,
			sess.ProjectID,
			sess.TaskCategory,
			sess.StartTime.Format(displayTimeFormat),
			endDate,
			timeutil.FormatClock(elapsed),
			statusText(sess.Status),
		}

		tableBody[i] = row
	}

	tableBody = append([][]string{
		{"ID", "PROJECT", "TASK", "START DATE", "END DATE", "ELAPSED", "STATUS"},
	}, tableBody...)

	ui.PrintTable(tableBody, w)
}

// printWorkLogsTable prints a work log table to the command-line.
func printWorkLogsTable(w io.Writer, workLogs []*models.WorkLog) {
	if len(workLogs) == 0 {
		pterm.Info.Println(noWorkLogsMsg)
		return
	}

	tableBody := make([][]string, len(workLogs))

	var total time.Duration

	for i := range workLogs {
		workLog := workLogs[i]

		total += workLog.Duration

		row := []string{
			workLog.ID,
			workLog.ProjectID,
			workLog.TaskCategory,
			workLog.StartTime.Format(displayTimeFormat),
			durafmt.Parse(workLog.Duration).LimitFirstN(2).String(),
			workLog.SourceSessionID,
		}

		tableBody[i] = row
	}

	tableBody = append([][]string{
		{"ID", "PROJECT", "TASK", "START DATE", "DURATION", "SESSION"},
	}, tableBody...)

	ui.PrintTable(tableBody, w)

	pterm.Printfln(
		"Total logged: %s",
		ui.Highlight(durafmt.Parse(total).LimitFirstN(2).String()),
	)
}

// printBulkResult reports the outcome of a bulk operation. Every requested
// id appears exactly once, either as succeeded or as a failure with its
// reason, so partial success is visible rather than silent.
func printBulkResult(w io.Writer, verb string, result bulk.Result) {
	for _, id := range result.Succeeded {
		pterm.Success.Printfln("Session %s %s", ui.Highlight(id), verb)
	}

	for _, failure := range result.Failed {
		pterm.Error.Printfln(
			"Session %s not %s: %s",
			failure.ID,
			verb,
			failure.Err,
		)
	}

	fmt.Fprintf(
		w,
		"%d of %d item(s) %s\n",
		len(result.Succeeded),
		result.Total(),
		verb,
	)
}
