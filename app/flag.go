package app

import "github.com/urfave/cli/v2"

var (
	projectFlag = &cli.StringFlag{
		Name:    "project",
		Aliases: []string{"p"},
		Usage:   "Project identifier the session is tracked against",
	}

	descriptionFlag = &cli.StringFlag{
		Name:    "description",
		Aliases: []string{"d"},
		Usage:   "Free-form description of the work",
	}

	moduleFlag = &cli.StringFlag{
		Name:  "module",
		Usage: "Module the work belongs to",
	}

	taskFlag = &cli.StringFlag{
		Name:  "task",
		Usage: "Task detail for the session",
	}

	workFlag = &cli.StringFlag{
		Name:  "work",
		Usage: "Work category (e.g. development, review, support)",
	}

	severityFlag = &cli.StringFlag{
		Name:  "severity",
		Usage: "Severity classification for the session",
	}

	sourceFlag = &cli.StringFlag{
		Name:  "source",
		Usage: "Ticket source system",
	}

	ticketFlag = &cli.StringFlag{
		Name:  "ticket",
		Usage: "Ticket identifier associated with the session",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"P"},
		Usage: "Specify a time period for the listing. Possible values are:\n" +
			"\t\t\ttoday, yesterday, 7days, 14days, 30days, 90days, 180days, 365days, all-time",
		Value: "7days",
	}

	startFlag = &cli.StringFlag{
		Name:    "start",
		Aliases: []string{"s"},
		Usage:   "Specify a start date or time in a natural format (e.g '3 days ago')",
	}

	endFlag = &cli.StringFlag{
		Name:    "end",
		Aliases: []string{"e"},
		Usage:   "Specify an end date or time in a natural format. Defaults to the current time",
	}

	projectFilterFlag = &cli.StringFlag{
		Name:    "project",
		Aliases: []string{"p"},
		Usage:   "Restrict the listing to a single project",
	}

	activeFlag = &cli.BoolFlag{
		Name:    "active",
		Aliases: []string{"a"},
		Usage:   "Show only running and paused sessions",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output in JSON format",
	}

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Dump the state of the live view on each update",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}
)
