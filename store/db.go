package store

import (
	"time"

	"github.com/ryz3006/alignzo/internal/models"
)

// SessionFilter narrows the sessions returned by GetSessions.
type SessionFilter struct {
	// UserID limits results to a single user when non-empty.
	UserID string
	// ProjectID limits results to a single project when non-empty.
	ProjectID string
	// StartTime and EndTime bound the session start time when non-zero.
	StartTime time.Time
	EndTime   time.Time
	// Statuses limits results to the given states when non-empty.
	Statuses []models.Status
}

// DB is the database storage interface.
type DB interface {
	// GetSession returns the session with the given id.
	GetSession(id string) (*models.TimeSession, error)
	// GetSessions returns saved sessions matching the filter.
	GetSessions(filter SessionFilter) ([]*models.TimeSession, error)
	// CreateSession persists a new session. It fails if the id is already
	// taken.
	CreateSession(sess *models.TimeSession) error
	// UpdateSession overwrites an existing session.
	UpdateSession(sess *models.TimeSession) error
	// TransitionSession applies fn to the stored session inside a single
	// write transaction and persists the result. If fn returns an error,
	// the transaction is rolled back and the session keeps its prior
	// state. Concurrent transitions on the same session are serialized:
	// each call observes the state left behind by the previous one.
	TransitionSession(
		id string,
		fn func(sess *models.TimeSession) error,
	) (*models.TimeSession, error)
	// DeleteSessions deletes one or more saved sessions.
	DeleteSessions(ids []string) error
	// ConvertSession atomically creates the work log produced by build,
	// records the one-log-per-session index entry, and sets the session's
	// work log linkage, all in a single write transaction. check runs
	// against the stored session before anything else, including when a
	// prior conversion exists, so ownership and eligibility are enforced
	// on retries too. If the session already has a work log, the existing
	// log is returned with created false and build is not called.
	ConvertSession(
		id string,
		check func(sess *models.TimeSession) error,
		build func(sess *models.TimeSession) (*models.WorkLog, error),
	) (workLog *models.WorkLog, created bool, err error)
	// GetWorkLog returns the work log with the given id.
	GetWorkLog(id string) (*models.WorkLog, error)
	// GetWorkLogs returns work logs matching the filter. The filter's
	// Statuses field is ignored.
	GetWorkLogs(filter SessionFilter) ([]*models.WorkLog, error)
	// Close ends the database connection.
	Close() error
}
