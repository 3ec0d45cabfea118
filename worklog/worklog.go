// Package worklog converts completed sessions into immutable work-log
// records used for reporting and billing.
package worklog

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ryz3006/alignzo/internal/apperr"
	"github.com/ryz3006/alignzo/internal/models"
	"github.com/ryz3006/alignzo/internal/timeutil"
	"github.com/ryz3006/alignzo/session"
	"github.com/ryz3006/alignzo/store"
)

var (
	errNotConvertible = &apperr.Error{
		Kind:    apperr.KindNotConvertible,
		Message: "only completed sessions can be converted to work logs",
	}

	errUnauthorized = &apperr.Error{
		Kind:    apperr.KindUnauthorized,
		Message: "user %s is not permitted to convert this session",
	}

	errPermissionDenied = &apperr.Error{
		Kind:    apperr.KindUnauthorized,
		Message: "user %s lacks the %s permission on %s",
	}
)

// Converter produces work logs from completed sessions. It is the only
// writer of a session's work-log linkage.
type Converter struct {
	db   store.DB
	auth session.Authorizer
}

func NewConverter(db store.DB, auth session.Authorizer) *Converter {
	return &Converter{
		db:   db,
		auth: auth,
	}
}

// Convert turns a COMPLETED session into a work log. Converting an
// already-converted session returns the existing log unchanged, so bulk and
// network retries are safe. The log creation and the session linkage are
// committed in one storage transaction keyed by the session id, so at most
// one work log can ever exist per session.
func (c *Converter) Convert(
	id, userID string,
	now time.Time,
) (*models.WorkLog, error) {
	if !c.auth.HasPermission(
		userID,
		session.ResourceWorkLogs,
		session.ActionCreate,
	) {
		return nil, errPermissionDenied.Fmt(
			userID,
			session.ActionCreate,
			session.ResourceWorkLogs,
		)
	}

	workLog, created, err := c.db.ConvertSession(id,
		func(sess *models.TimeSession) error {
			if sess.UserID != userID {
				return errUnauthorized.Fmt(userID)
			}

			// A converted session already passed eligibility; the store
			// replays its existing log.
			if sess.Converted() {
				return nil
			}

			if sess.Status != models.StatusCompleted ||
				sess.EndTime.IsZero() {
				return errNotConvertible
			}

			return nil
		},
		func(sess *models.TimeSession) (*models.WorkLog, error) {
			return &models.WorkLog{
				ID:              uuid.NewString(),
				UserID:          sess.UserID,
				ProjectID:       sess.ProjectID,
				SourceSessionID: sess.ID,
				Metadata:        sess.Metadata,
				StartTime:       sess.StartTime,
				EndTime:         sess.EndTime,
				Duration: timeutil.ActiveDuration(
					sess.StartTime,
					sess.EndTime,
					sess.PausedDuration,
				),
				CreatedAt: now,
			}, nil
		})
	if err != nil {
		return nil, err
	}

	if created {
		slog.Info("session converted to work log",
			slog.String("session_id", id),
			slog.String("work_log_id", workLog.ID),
			slog.Duration("duration", workLog.Duration),
		)
	}

	return workLog, nil
}

// Get returns a work log owned by the given user.
func (c *Converter) Get(id, userID string) (*models.WorkLog, error) {
	workLog, err := c.db.GetWorkLog(id)
	if err != nil {
		return nil, err
	}

	if workLog.UserID != userID {
		return nil, errUnauthorized.Fmt(userID)
	}

	return workLog, nil
}

// List returns the user's work logs matching the filter.
func (c *Converter) List(
	userID string,
	filter store.SessionFilter,
) ([]*models.WorkLog, error) {
	filter.UserID = userID

	return c.db.GetWorkLogs(filter)
}
