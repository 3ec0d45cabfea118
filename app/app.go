// Package app defines the alignzo command-line application.
package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ryz3006/alignzo/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the alignzo app instance.
func Get() *cli.App {
	alignzoApp := &cli.App{
		Name: "alignzo",
		Usage: `
		Alignzo is a workforce time tracker for the command-line. Run timers
		against projects, pause and resume them as you work, and convert
		completed sessions into immutable work logs for reporting and billing.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:      "start",
				Usage:     "Start tracking a new work session against a project",
				UsageText: "start --project PROJECT [OPTIONS]",
				Flags: []cli.Flag{
					projectFlag,
					descriptionFlag,
					moduleFlag,
					taskFlag,
					workFlag,
					severityFlag,
					sourceFlag,
					ticketFlag,
				},
				Action: startAction,
			},
			{
				Name:      "pause",
				Usage:     "Pause one or more running sessions",
				UsageText: "pause SESSION_ID...",
				Action:    pauseAction,
			},
			{
				Name:      "resume",
				Usage:     "Resume one or more paused sessions",
				UsageText: "resume SESSION_ID...",
				Action:    resumeAction,
			},
			{
				Name:      "stop",
				Usage:     "Stop one or more sessions, fixing their end time",
				UsageText: "stop SESSION_ID...",
				Action:    stopAction,
			},
			{
				Name:      "cancel",
				Usage:     "Cancel one or more sessions without producing work logs",
				UsageText: "cancel SESSION_ID...",
				Action:    cancelAction,
			},
			{
				Name:      "convert",
				Usage:     "Convert completed sessions into work logs",
				UsageText: "convert SESSION_ID...",
				Action:    convertAction,
			},
			{
				Name:      "delete",
				Usage:     "Delete one or more sessions permanently",
				UsageText: "delete SESSION_ID...",
				Action:    deleteAction,
			},
			{
				Name:  "sessions",
				Usage: "List sessions within a time period",
				Flags: []cli.Flag{
					periodFlag,
					startFlag,
					endFlag,
					projectFilterFlag,
					activeFlag,
					jsonFlag,
				},
				Action: sessionsAction,
			},
			{
				Name:  "logs",
				Usage: "List work logs within a time period",
				Flags: []cli.Flag{
					periodFlag,
					startFlag,
					endFlag,
					projectFilterFlag,
					jsonFlag,
				},
				Action: logsAction,
			},
			{
				Name:  "report",
				Usage: "Summarize logged time per project and category",
				Flags: []cli.Flag{
					periodFlag,
					startFlag,
					endFlag,
					projectFilterFlag,
				},
				Action: reportAction,
			},
			{
				Name:   "watch",
				Usage:  "Watch running and paused sessions with live elapsed time",
				Flags:  []cli.Flag{debugFlag},
				Action: watchAction,
			},
			{
				Name:      "edit",
				Usage:     "Edit the metadata of a non-terminal session",
				UsageText: "edit SESSION_ID [OPTIONS]",
				Flags: []cli.Flag{
					projectFlag,
					descriptionFlag,
					moduleFlag,
					taskFlag,
					workFlag,
					severityFlag,
					sourceFlag,
					ticketFlag,
				},
				Action: editAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			noColorFlag,
		},
		Before: beforeAction,
	}

	return alignzoApp
}
