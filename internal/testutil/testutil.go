// Package testutil provides an in-memory store implementation for package
// tests.
package testutil

import (
	"slices"
	"sync"

	"github.com/ryz3006/alignzo/internal/apperr"
	"github.com/ryz3006/alignzo/internal/models"
	"github.com/ryz3006/alignzo/store"
)

var (
	errSessionNotFound = &apperr.Error{
		Kind:    apperr.KindNotFound,
		Message: "session not found",
	}

	errWorkLogNotFound = &apperr.Error{
		Kind:    apperr.KindNotFound,
		Message: "work log not found",
	}

	errDuplicateSession = &apperr.Error{
		Kind:    apperr.KindStorage,
		Message: "a session with this id already exists",
	}
)

// DB is an in-memory implementation of store.DB. A single mutex serializes
// all writes, mirroring Bolt's single write transaction.
type DB struct {
	mu       sync.Mutex
	sessions map[string]models.TimeSession
	workLogs map[string]models.WorkLog
	// workLogIdx maps a session id to its work log id.
	workLogIdx map[string]string

	// FailNextWrite makes the next write operation fail with a storage
	// error, for exercising rollback behavior.
	FailNextWrite bool
}

var _ store.DB = (*DB)(nil)

func NewDB() *DB {
	return &DB{
		sessions:   make(map[string]models.TimeSession),
		workLogs:   make(map[string]models.WorkLog),
		workLogIdx: make(map[string]string),
	}
}

func (d *DB) failWrite() bool {
	if d.FailNextWrite {
		d.FailNextWrite = false
		return true
	}

	return false
}

var errWriteFailed = &apperr.Error{
	Kind:    apperr.KindStorage,
	Message: "simulated write failure",
}

func (d *DB) GetSession(id string) (*models.TimeSession, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sess, ok := d.sessions[id]
	if !ok {
		return nil, errSessionNotFound
	}

	return &sess, nil
}

func (d *DB) GetSessions(
	filter store.SessionFilter,
) ([]*models.TimeSession, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var result []*models.TimeSession

	for id := range d.sessions {
		sess := d.sessions[id]

		if filter.UserID != "" && sess.UserID != filter.UserID {
			continue
		}

		if filter.ProjectID != "" && sess.ProjectID != filter.ProjectID {
			continue
		}

		if !filter.StartTime.IsZero() &&
			sess.StartTime.Before(filter.StartTime) {
			continue
		}

		if !filter.EndTime.IsZero() &&
			sess.StartTime.After(filter.EndTime) {
			continue
		}

		if len(filter.Statuses) > 0 &&
			!slices.Contains(filter.Statuses, sess.Status) {
			continue
		}

		result = append(result, &sess)
	}

	slices.SortFunc(result, func(a, b *models.TimeSession) int {
		return a.StartTime.Compare(b.StartTime)
	})

	return result, nil
}

func (d *DB) CreateSession(sess *models.TimeSession) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failWrite() {
		return errWriteFailed
	}

	if _, ok := d.sessions[sess.ID]; ok {
		return errDuplicateSession
	}

	d.sessions[sess.ID] = *sess

	return nil
}

func (d *DB) UpdateSession(sess *models.TimeSession) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failWrite() {
		return errWriteFailed
	}

	if _, ok := d.sessions[sess.ID]; !ok {
		return errSessionNotFound
	}

	d.sessions[sess.ID] = *sess

	return nil
}

func (d *DB) TransitionSession(
	id string,
	fn func(sess *models.TimeSession) error,
) (*models.TimeSession, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored, ok := d.sessions[id]
	if !ok {
		return nil, errSessionNotFound
	}

	sess := stored

	err := fn(&sess)
	if err != nil {
		return nil, err
	}

	if d.failWrite() {
		return nil, errWriteFailed
	}

	d.sessions[id] = sess

	return &sess, nil
}

func (d *DB) DeleteSessions(ids []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failWrite() {
		return errWriteFailed
	}

	for _, id := range ids {
		delete(d.sessions, id)
	}

	return nil
}

func (d *DB) ConvertSession(
	id string,
	check func(sess *models.TimeSession) error,
	build func(sess *models.TimeSession) (*models.WorkLog, error),
) (*models.WorkLog, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored, ok := d.sessions[id]
	if !ok {
		return nil, false, errSessionNotFound
	}

	sess := stored

	if err := check(&sess); err != nil {
		return nil, false, err
	}

	if logID, ok := d.workLogIdx[id]; ok {
		workLog, ok := d.workLogs[logID]
		if !ok {
			return nil, false, errWorkLogNotFound
		}

		return &workLog, false, nil
	}

	workLog, err := build(&sess)
	if err != nil {
		return nil, false, err
	}

	if d.failWrite() {
		return nil, false, errWriteFailed
	}

	d.workLogs[workLog.ID] = *workLog
	d.workLogIdx[id] = workLog.ID

	sess.WorkLogID = workLog.ID
	d.sessions[id] = sess

	return workLog, true, nil
}

func (d *DB) GetWorkLog(id string) (*models.WorkLog, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	workLog, ok := d.workLogs[id]
	if !ok {
		return nil, errWorkLogNotFound
	}

	return &workLog, nil
}

func (d *DB) GetWorkLogs(
	filter store.SessionFilter,
) ([]*models.WorkLog, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var result []*models.WorkLog

	for id := range d.workLogs {
		workLog := d.workLogs[id]

		if filter.UserID != "" && workLog.UserID != filter.UserID {
			continue
		}

		if filter.ProjectID != "" &&
			workLog.ProjectID != filter.ProjectID {
			continue
		}

		if !filter.StartTime.IsZero() &&
			workLog.StartTime.Before(filter.StartTime) {
			continue
		}

		if !filter.EndTime.IsZero() &&
			workLog.StartTime.After(filter.EndTime) {
			continue
		}

		result = append(result, &workLog)
	}

	slices.SortFunc(result, func(a, b *models.WorkLog) int {
		return a.StartTime.Compare(b.StartTime)
	})

	return result, nil
}

func (d *DB) Close() error {
	return nil
}

// WorkLogCount returns the number of stored work logs.
func (d *DB) WorkLogCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.workLogs)
}
