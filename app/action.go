package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ryz3006/alignzo/bulk"
	"github.com/ryz3006/alignzo/config"
	"github.com/ryz3006/alignzo/internal/models"
	"github.com/ryz3006/alignzo/internal/pathutil"
	"github.com/ryz3006/alignzo/internal/ui"
	"github.com/ryz3006/alignzo/report"
	"github.com/ryz3006/alignzo/session"
	"github.com/ryz3006/alignzo/store"
	"github.com/ryz3006/alignzo/tracker"
	"github.com/ryz3006/alignzo/worklog"
)

const (
	envNoColor        = "NO_COLOR"
	envAlignzoNoColor = "ALIGNZO_NO_COLOR"
)

var errNoSessionIDs = errors.New("please provide at least one session id")

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// runtimeEnv holds the long-lived collaborators an action needs: the loaded
// configuration, the opened store, and the services wired on top of it.
type runtimeEnv struct {
	cfg       *config.Config
	db        store.DB
	engine    *session.Engine
	converter *worklog.Converter
	bulk      *bulk.Coordinator
}

// newRuntimeEnv loads the configuration, opens the database, and wires the
// session, work log, and bulk services together.
func newRuntimeEnv() (*runtimeEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := initLogging(cfg); err != nil {
		return nil, err
	}

	db, err := store.NewClient(pathutil.Must().DBFile())
	if err != nil {
		return nil, err
	}

	ui.DarkTheme = cfg.Display.DarkTheme
	displayTimeFormat = timeLayout(cfg.Display.TwentyFourHour)

	auth := config.NewAuthorizer(cfg)
	catalog := config.NewCatalog(cfg)

	engine := session.NewEngine(db, auth, catalog)
	converter := worklog.NewConverter(db, auth)

	return &runtimeEnv{
		cfg:       cfg,
		db:        db,
		engine:    engine,
		converter: converter,
		bulk:      bulk.NewCoordinator(engine, converter),
	}, nil
}

func metadataFromFlags(ctx *cli.Context) models.Metadata {
	return models.Metadata{
		Description:      ctx.String("description"),
		Module:           ctx.String("module"),
		TaskCategory:     ctx.String("task"),
		WorkCategory:     ctx.String("work"),
		SeverityCategory: ctx.String("severity"),
		SourceCategory:   ctx.String("source"),
		TicketReference:  ctx.String("ticket"),
	}
}

func sessionIDs(ctx *cli.Context) ([]string, error) {
	ids := ctx.Args().Slice()
	if len(ids) == 0 {
		return nil, errNoSessionIDs
	}

	return ids, nil
}

// startAction handles the start command which begins tracking a new work
// session.
func startAction(ctx *cli.Context) error {
	env, err := newRuntimeEnv()
	if err != nil {
		return err
	}

	defer env.db.Close()

	sess, err := env.engine.Start(
		env.cfg.User.ID,
		ctx.String("project"),
		metadataFromFlags(ctx),
		time.Now(),
	)
	if err != nil {
		return err
	}

	pterm.Success.Printfln(
		"Session %s started for project %s",
		ui.Highlight(sess.ID),
		ui.Cyan(sess.ProjectID),
	)

	return nil
}

// transitionAction applies a lifecycle transition to each of the session
// ids given as arguments.
func transitionAction(
	ctx *cli.Context,
	verb string,
	fn func(env *runtimeEnv, id string, now time.Time) (*models.TimeSession, error),
) error {
	ids, err := sessionIDs(ctx)
	if err != nil {
		return err
	}

	env, err := newRuntimeEnv()
	if err != nil {
		return err
	}

	defer env.db.Close()

	now := time.Now()

	for _, id := range ids {
		sess, err := fn(env, id, now)
		if err != nil {
			return err
		}

		pterm.Success.Printfln(
			"Session %s %s (status: %s)",
			ui.Highlight(sess.ID),
			verb,
			statusText(sess.Status),
		)
	}

	return nil
}

func pauseAction(ctx *cli.Context) error {
	return transitionAction(ctx, "paused",
		func(env *runtimeEnv, id string, now time.Time) (*models.TimeSession, error) {
			return env.engine.Pause(id, env.cfg.User.ID, now)
		})
}

func resumeAction(ctx *cli.Context) error {
	return transitionAction(ctx, "resumed",
		func(env *runtimeEnv, id string, now time.Time) (*models.TimeSession, error) {
			return env.engine.Resume(id, env.cfg.User.ID, now)
		})
}

func stopAction(ctx *cli.Context) error {
	return transitionAction(ctx, "stopped",
		func(env *runtimeEnv, id string, now time.Time) (*models.TimeSession, error) {
			return env.engine.Stop(id, env.cfg.User.ID, now)
		})
}

func cancelAction(ctx *cli.Context) error {
	return transitionAction(ctx, "cancelled",
		func(env *runtimeEnv, id string, now time.Time) (*models.TimeSession, error) {
			return env.engine.Cancel(id, env.cfg.User.ID, now)
		})
}

// convertAction handles the convert command which turns completed sessions
// into work logs through the bulk coordinator so one failure does not abort
// the rest.
func convertAction(ctx *cli.Context) error {
	ids, err := sessionIDs(ctx)
	if err != nil {
		return err
	}

	env, err := newRuntimeEnv()
	if err != nil {
		return err
	}

	defer env.db.Close()

	result := env.bulk.Apply(
		bulk.OperationConvert,
		ids,
		env.cfg.User.ID,
		time.Now(),
	)

	printBulkResult(os.Stdout, "converted", result)

	return nil
}

// deleteAction handles the delete command which deletes one or more
// sessions after confirmation.
func deleteAction(ctx *cli.Context) error {
	ids, err := sessionIDs(ctx)
	if err != nil {
		return err
	}

	env, err := newRuntimeEnv()
	if err != nil {
		return err
	}

	defer env.db.Close()

	return delSessions(env, ids)
}

// sessionsAction handles the sessions command and prints a table of the
// sessions started within a time period.
func sessionsAction(ctx *cli.Context) error {
	filter := config.Filter(ctx)

	env, err := newRuntimeEnv()
	if err != nil {
		return err
	}

	defer env.db.Close()

	var sessions []*models.TimeSession

	if ctx.Bool("active") {
		sessions, err = env.engine.Active(env.cfg.User.ID)
	} else {
		sessions, err = env.engine.List(env.cfg.User.ID, store.SessionFilter{
			ProjectID: filter.ProjectID,
			StartTime: filter.StartTime,
			EndTime:   filter.EndTime,
		})
	}

	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		b, err := json.Marshal(sessions)
		if err != nil {
			return err
		}

		pterm.Println(string(b))

		return nil
	}

	printSessionsTable(os.Stdout, sessions)

	return nil
}

// logsAction handles the logs command and prints a table of the work logs
// created within a time period.
func logsAction(ctx *cli.Context) error {
	filter := config.Filter(ctx)

	env, err := newRuntimeEnv()
	if err != nil {
		return err
	}

	defer env.db.Close()

	workLogs, err := env.converter.List(env.cfg.User.ID, store.SessionFilter{
		ProjectID: filter.ProjectID,
		StartTime: filter.StartTime,
		EndTime:   filter.EndTime,
	})
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		b, err := json.Marshal(workLogs)
		if err != nil {
			return err
		}

		pterm.Println(string(b))

		return nil
	}

	printWorkLogsTable(os.Stdout, workLogs)

	return nil
}

// reportAction summarizes the work logs for the specified time period.
func reportAction(ctx *cli.Context) error {
	filter := config.Filter(ctx)

	env, err := newRuntimeEnv()
	if err != nil {
		return err
	}

	defer env.db.Close()

	workLogs, err := env.converter.List(env.cfg.User.ID, store.SessionFilter{
		ProjectID: filter.ProjectID,
		StartTime: filter.StartTime,
		EndTime:   filter.EndTime,
	})
	if err != nil {
		return err
	}

	report.Generate(workLogs).Render(os.Stdout)

	return nil
}

// watchAction handles the watch command which shows the user's running and
// paused sessions with a live elapsed display.
func watchAction(ctx *cli.Context) error {
	env, err := newRuntimeEnv()
	if err != nil {
		return err
	}

	defer env.db.Close()

	m := tracker.NewModel(env.engine, env.cfg.User.ID, ctx.Bool("debug"))

	p := tea.NewProgram(m)

	_, err = p.Run()

	return err
}

// editAction handles the edit command which updates the metadata of a
// non-terminal session. Flags that are not set keep the session's existing
// values.
func editAction(ctx *cli.Context) error {
	ids, err := sessionIDs(ctx)
	if err != nil {
		return err
	}

	env, err := newRuntimeEnv()
	if err != nil {
		return err
	}

	defer env.db.Close()

	id := ids[0]

	sess, err := env.engine.Get(id, env.cfg.User.ID)
	if err != nil {
		return err
	}

	req := session.EditRequest{
		Metadata: models.Metadata{
			Description: firstNonEmptyString(
				ctx.String("description"),
				sess.Description,
			),
			Module: firstNonEmptyString(ctx.String("module"), sess.Module),
			TaskCategory: firstNonEmptyString(
				ctx.String("task"),
				sess.TaskCategory,
			),
			WorkCategory: firstNonEmptyString(
				ctx.String("work"),
				sess.WorkCategory,
			),
			SeverityCategory: firstNonEmptyString(
				ctx.String("severity"),
				sess.SeverityCategory,
			),
			SourceCategory: firstNonEmptyString(
				ctx.String("source"),
				sess.SourceCategory,
			),
			TicketReference: firstNonEmptyString(
				ctx.String("ticket"),
				sess.TicketReference,
			),
		},
	}

	if ctx.IsSet("project") {
		projectID := ctx.String("project")
		req.ProjectID = &projectID
	}

	sess, err = env.engine.Edit(id, env.cfg.User.ID, req)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Session %s updated", ui.Highlight(sess.ID))

	return nil
}

// editConfigAction handles the edit-config command which opens the alignzo
// config file in the user's default text editor.
func editConfigAction(_ *cli.Context) error {
	if err := pathutil.Initialize(); err != nil {
		return err
	}

	defaultEditor := "nano"

	if runtime.GOOS == "windows" {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cmd := exec.Command(editor, pathutil.Must().ConfigFile())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

func beforeAction(ctx *cli.Context) error {
	// Override the default version printer
	oldVersionPrinter := cli.VersionPrinter
	cli.VersionPrinter = func(c *cli.Context) {
		oldVersionPrinter(c)
		fmt.Printf(
			"https://github.com/ryz3006/alignzo/releases/%s\n",
			c.App.Version,
		)
	}

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if ALIGNZO_NO_COLOR is set
	if _, exists := os.LookupEnv(envAlignzoNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	return nil
}
