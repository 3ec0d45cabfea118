// Package session implements the time-session lifecycle engine: the state
// machine that carries a tracked unit of work from creation through pausing,
// resuming, and completion, with duration accounting that stays correct
// across pause/resume cycles.
package session

import (
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/ryz3006/alignzo/internal/models"
	"github.com/ryz3006/alignzo/store"
)

// Permission resources and actions checked before mutating operations.
const (
	ResourceSessions = "sessions"
	ResourceWorkLogs = "worklogs"

	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Authorizer supplies the permission check consulted before any
// state-mutating operation.
type Authorizer interface {
	HasPermission(userID, resource, action string) bool
}

// Categories is the set of valid classification values for a project.
// An empty list accepts any value for that field.
type Categories struct {
	Modules            []string
	TaskCategories     []string
	WorkCategories     []string
	SeverityCategories []string
	SourceCategories   []string
}

// Catalog supplies the valid classification categories per project. It is
// used only to validate optional metadata, never for lifecycle logic.
type Catalog interface {
	Categories(projectID string) (*Categories, error)
}

// Engine drives session lifecycle transitions against the data store.
// All methods take the current time explicitly so that the state machine
// stays deterministic and testable; only the outermost callers read the
// system clock.
type Engine struct {
	db      store.DB
	auth    Authorizer
	catalog Catalog
}

func NewEngine(db store.DB, auth Authorizer, catalog Catalog) *Engine {
	return &Engine{
		db:      db,
		auth:    auth,
		catalog: catalog,
	}
}

// Start creates a new session in the RUNNING state. Multiple running
// sessions per user are allowed; each is tracked independently.
func (e *Engine) Start(
	userID, projectID string,
	meta models.Metadata,
	now time.Time,
) (*models.TimeSession, error) {
	if !e.auth.HasPermission(userID, ResourceSessions, ActionCreate) {
		return nil, errPermissionDenied.Fmt(
			userID,
			ActionCreate,
			ResourceSessions,
		)
	}

	err := e.validateMetadata(projectID, meta)
	if err != nil {
		return nil, err
	}

	sess := &models.TimeSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProjectID: projectID,
		Metadata:  meta,
		StartTime: now,
		Status:    models.StatusRunning,
	}

	err = e.db.CreateSession(sess)
	if err != nil {
		return nil, err
	}

	slog.Info("session started",
		slog.String("session_id", sess.ID),
		slog.String("user_id", userID),
		slog.String("project_id", projectID),
	)

	return sess, nil
}

// Pause transitions a RUNNING session to PAUSED and opens a pause interval.
// Pausing an already paused session is rejected with an invalid-transition
// error so callers can distinguish "nothing to do" from "request processed".
func (e *Engine) Pause(
	id, userID string,
	now time.Time,
) (*models.TimeSession, error) {
	return e.transition(id, userID, "pause",
		func(sess *models.TimeSession) error {
			if sess.Status != models.StatusRunning {
				return errInvalidTransition.Fmt("pause", sess.Status)
			}

			sess.Status = models.StatusPaused
			sess.PausedAt = now

			return nil
		})
}

// Resume transitions a PAUSED session back to RUNNING, folding the closed
// pause interval into the session's cumulative paused duration.
func (e *Engine) Resume(
	id, userID string,
	now time.Time,
) (*models.TimeSession, error) {
	return e.transition(id, userID, "resume",
		func(sess *models.TimeSession) error {
			if sess.Status != models.StatusPaused {
				return errInvalidTransition.Fmt("resume", sess.Status)
			}

			closePauseInterval(sess, now)
			sess.Status = models.StatusRunning

			return nil
		})
}

// Stop transitions a RUNNING or PAUSED session to COMPLETED and fixes its
// end time. Stopping from PAUSED closes the open pause interval as of the
// stop moment, so the final duration never includes paused time; no accrual
// happens after the end time is fixed.
func (e *Engine) Stop(
	id, userID string,
	now time.Time,
) (*models.TimeSession, error) {
	return e.terminate(id, userID, "stop", models.StatusCompleted, now)
}

// Cancel transitions a RUNNING or PAUSED session to CANCELLED. A cancelled
// session can never be converted to a work log.
func (e *Engine) Cancel(
	id, userID string,
	now time.Time,
) (*models.TimeSession, error) {
	return e.terminate(id, userID, "cancel", models.StatusCancelled, now)
}

func (e *Engine) terminate(
	id, userID, action string,
	target models.Status,
	now time.Time,
) (*models.TimeSession, error) {
	return e.transition(id, userID, action,
		func(sess *models.TimeSession) error {
			if sess.Status.Terminal() {
				return errAlreadyTerminal.Fmt(sess.Status)
			}

			if sess.Status == models.StatusPaused {
				closePauseInterval(sess, now)
			}

			sess.Status = target
			sess.EndTime = now

			return nil
		})
}

// closePauseInterval folds the open pause interval into the cumulative
// paused duration. The increment is clamped at zero so PausedDuration stays
// monotonically non-decreasing even under clock skew.
func closePauseInterval(sess *models.TimeSession, now time.Time) {
	if d := now.Sub(sess.PausedAt); d > 0 {
		sess.PausedDuration += d
	}

	sess.PausedAt = time.Time{}
}

// transition runs fn against the stored session inside a single write
// transaction. The ownership check runs first; on a mismatch no further
// business logic is evaluated and the session is left untouched.
func (e *Engine) transition(
	id, userID, action string,
	fn func(sess *models.TimeSession) error,
) (*models.TimeSession, error) {
	if !e.auth.HasPermission(userID, ResourceSessions, ActionUpdate) {
		return nil, errPermissionDenied.Fmt(
			userID,
			ActionUpdate,
			ResourceSessions,
		)
	}

	sess, err := e.db.TransitionSession(id,
		func(sess *models.TimeSession) error {
			if sess.UserID != userID {
				return errUnauthorized.Fmt(userID)
			}

			return fn(sess)
		})
	if err != nil {
		return nil, err
	}

	slog.Info("session transition",
		slog.String("session_id", id),
		slog.String("action", action),
		slog.String("status", string(sess.Status)),
	)

	return sess, nil
}

// EditRequest carries the fields that may change on a non-terminal session.
// A nil ProjectID leaves the project unchanged.
type EditRequest struct {
	ProjectID *string
	Metadata  models.Metadata
}

// Edit updates the classification metadata of a non-terminal session. The
// target project may also change while the session is RUNNING or PAUSED;
// terminal sessions are immutable except for conversion linkage.
func (e *Engine) Edit(
	id, userID string,
	req EditRequest,
) (*models.TimeSession, error) {
	return e.transition(id, userID, "edit",
		func(sess *models.TimeSession) error {
			if sess.Status.Terminal() {
				return errInvalidTransition.Fmt("edit", sess.Status)
			}

			projectID := sess.ProjectID
			if req.ProjectID != nil {
				projectID = *req.ProjectID
			}

			err := e.validateMetadata(projectID, req.Metadata)
			if err != nil {
				return err
			}

			sess.ProjectID = projectID
			sess.Metadata = req.Metadata

			return nil
		})
}

// Get returns a session owned by the given user.
func (e *Engine) Get(id, userID string) (*models.TimeSession, error) {
	sess, err := e.db.GetSession(id)
	if err != nil {
		return nil, err
	}

	if sess.UserID != userID {
		return nil, errUnauthorized.Fmt(userID)
	}

	return sess, nil
}

// List returns the user's sessions matching the filter.
func (e *Engine) List(
	userID string,
	filter store.SessionFilter,
) ([]*models.TimeSession, error) {
	filter.UserID = userID

	return e.db.GetSessions(filter)
}

// Active returns the user's non-terminal sessions.
func (e *Engine) Active(userID string) ([]*models.TimeSession, error) {
	return e.db.GetSessions(store.SessionFilter{
		UserID: userID,
		Statuses: []models.Status{
			models.StatusRunning,
			models.StatusPaused,
		},
	})
}

// Delete removes a session owned by the given user.
func (e *Engine) Delete(id, userID string) error {
	if !e.auth.HasPermission(userID, ResourceSessions, ActionDelete) {
		return errPermissionDenied.Fmt(
			userID,
			ActionDelete,
			ResourceSessions,
		)
	}

	sess, err := e.db.GetSession(id)
	if err != nil {
		return err
	}

	if sess.UserID != userID {
		return errUnauthorized.Fmt(userID)
	}

	return e.db.DeleteSessions([]string{id})
}

func (e *Engine) validateMetadata(
	projectID string,
	meta models.Metadata,
) error {
	cats, err := e.catalog.Categories(projectID)
	if err != nil {
		return err
	}

	checks := []struct {
		field string
		value string
		valid []string
	}{
		{"module", meta.Module, cats.Modules},
		{"task category", meta.TaskCategory, cats.TaskCategories},
		{"work category", meta.WorkCategory, cats.WorkCategories},
		{"severity category", meta.SeverityCategory, cats.SeverityCategories},
		{"source category", meta.SourceCategory, cats.SourceCategories},
	}

	for _, c := range checks {
		if c.value == "" || len(c.valid) == 0 {
			continue
		}

		if !slices.Contains(c.valid, c.value) {
			return errUnknownCategory.Fmt(c.field, c.value, projectID)
		}
	}

	return nil
}
