// Package store connects to the data store and manages sessions and work logs
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"slices"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ryz3006/alignzo/internal/apperr"
	"github.com/ryz3006/alignzo/internal/models"
)

const (
	sessionBucket = "sessions"
	workLogBucket = "worklogs"
	// workLogIdxBucket maps a session id to its work log id. The index is
	// written in the same transaction that creates the log, so at most one
	// work log can ever exist per session.
	workLogIdxBucket = "worklog_idx"
)

var (
	errAlreadyRunning = errors.New(
		"is alignzo already running? Only one instance can be active at a time",
	)

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

	errStorage = &apperr.Error{
		Kind:    apperr.KindStorage,
		Message: "storage operation failed",
	}
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	// Create the necessary buckets for storing data if they do not exist
	// already
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{
			sessionBucket,
			workLogBucket,
			workLogIdxBucket,
		} {
			_, err := tx.CreateBucketIfNotExists([]byte(name))
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, errStorage.Wrap(err)
	}

	return &Client{db}, nil
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		// bolt.Open with a Timeout reports lock contention as ErrTimeout.
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errAlreadyRunning
		}

		return nil, err
	}

	return db, nil
}

func getSession(
	tx *bolt.Tx,
	id string,
) (*models.TimeSession, error) {
	b := tx.Bucket([]byte(sessionBucket)).Get([]byte(id))
	if len(b) == 0 {
		return nil, errSessionNotFound
	}

	var sess models.TimeSession

	err := json.Unmarshal(b, &sess)
	if err != nil {
		return nil, errStorage.Wrap(err)
	}

	return &sess, nil
}

func putSession(tx *bolt.Tx, sess *models.TimeSession) error {
	value, err := json.Marshal(sess)
	if err != nil {
		return errStorage.Wrap(err)
	}

	err = tx.Bucket([]byte(sessionBucket)).Put([]byte(sess.ID), value)
	if err != nil {
		return errStorage.Wrap(err)
	}

	return nil
}

func (c *Client) GetSession(id string) (*models.TimeSession, error) {
	var sess *models.TimeSession

	err := c.View(func(tx *bolt.Tx) error {
		var err error
		sess, err = getSession(tx, id)

		return err
	})
	if err != nil {
		return nil, err
	}

	return sess, nil
}

func (c *Client) GetSessions(
	filter SessionFilter,
) ([]*models.TimeSession, error) {
	var sessions []*models.TimeSession

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(sessionBucket)).Cursor()

		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			var sess models.TimeSession

			err := json.Unmarshal(v, &sess)
			if err != nil {
				return errStorage.Wrap(err)
			}

			if matchesFilter(&sess, filter) {
				sessions = append(sessions, &sess)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(sessions, func(a, b *models.TimeSession) int {
		return a.StartTime.Compare(b.StartTime)
	})

	return sessions, nil
}

func matchesFilter(sess *models.TimeSession, filter SessionFilter) bool {
	if filter.UserID != "" && sess.UserID != filter.UserID {
		return false
	}

	if filter.ProjectID != "" && sess.ProjectID != filter.ProjectID {
		return false
	}

	if !filter.StartTime.IsZero() && sess.StartTime.Before(filter.StartTime) {
		return false
	}

	if !filter.EndTime.IsZero() && sess.StartTime.After(filter.EndTime) {
		return false
	}

	if len(filter.Statuses) > 0 &&
		!slices.Contains(filter.Statuses, sess.Status) {
		return false
	}

	return true
}

func (c *Client) CreateSession(sess *models.TimeSession) error {
	return c.Update(func(tx *bolt.Tx) error {
		existing := tx.Bucket([]byte(sessionBucket)).Get([]byte(sess.ID))
		if len(existing) != 0 {
			return errDuplicateSession
		}

		return putSession(tx, sess)
	})
}

func (c *Client) UpdateSession(sess *models.TimeSession) error {
	return c.Update(func(tx *bolt.Tx) error {
		_, err := getSession(tx, sess.ID)
		if err != nil {
			return err
		}

		return putSession(tx, sess)
	})
}

// TransitionSession performs a serialized read-modify-write on a single
// session. Bolt admits one write transaction at a time, so a transition
// racing another on the same session always observes the first one's result.
func (c *Client) TransitionSession(
	id string,
	fn func(sess *models.TimeSession) error,
) (*models.TimeSession, error) {
	var sess *models.TimeSession

	err := c.Update(func(tx *bolt.Tx) error {
		var err error

		sess, err = getSession(tx, id)
		if err != nil {
			return err
		}

		err = fn(sess)
		if err != nil {
			return err
		}

		return putSession(tx, sess)
	})
	if err != nil {
		return nil, err
	}

	return sess, nil
}

func (c *Client) DeleteSessions(ids []string) error {
	return c.Update(func(tx *bolt.Tx) error {
		for _, id := range ids {
			err := tx.Bucket([]byte(sessionBucket)).Delete([]byte(id))
			if err != nil {
				return errStorage.Wrap(err)
			}
		}

		return nil
	})
}

// ConvertSession creates a work log for the session in a single write
// transaction. The worklog_idx bucket is checked and written in the same
// transaction, which guarantees at most one work log per session even when
// the application-level idempotency check has been raced.
func (c *Client) ConvertSession(
	id string,
	check func(sess *models.TimeSession) error,
	build func(sess *models.TimeSession) (*models.WorkLog, error),
) (*models.WorkLog, bool, error) {
	var (
		workLog *models.WorkLog
		created bool
	)

	err := c.Update(func(tx *bolt.Tx) error {
		sess, err := getSession(tx, id)
		if err != nil {
			return err
		}

		if err := check(sess); err != nil {
			return err
		}

		idx := tx.Bucket([]byte(workLogIdxBucket))

		if existing := idx.Get([]byte(id)); len(existing) != 0 {
			workLog, err = getWorkLog(tx, string(existing))
			return err
		}

		workLog, err = build(sess)
		if err != nil {
			return err
		}

		value, err := json.Marshal(workLog)
		if err != nil {
			return errStorage.Wrap(err)
		}

		err = tx.Bucket([]byte(workLogBucket)).
			Put([]byte(workLog.ID), value)
		if err != nil {
			return errStorage.Wrap(err)
		}

		err = idx.Put([]byte(id), []byte(workLog.ID))
		if err != nil {
			return errStorage.Wrap(err)
		}

		sess.WorkLogID = workLog.ID
		created = true

		return putSession(tx, sess)
	})
	if err != nil {
		return nil, false, err
	}

	return workLog, created, nil
}

func getWorkLog(tx *bolt.Tx, id string) (*models.WorkLog, error) {
	b := tx.Bucket([]byte(workLogBucket)).Get([]byte(id))
	if len(b) == 0 {
		return nil, errWorkLogNotFound
	}

	var workLog models.WorkLog

	err := json.Unmarshal(b, &workLog)
	if err != nil {
		return nil, errStorage.Wrap(err)
	}

	return &workLog, nil
}

func (c *Client) GetWorkLog(id string) (*models.WorkLog, error) {
	var workLog *models.WorkLog

	err := c.View(func(tx *bolt.Tx) error {
		var err error
		workLog, err = getWorkLog(tx, id)

		return err
	})
	if err != nil {
		return nil, err
	}

	return workLog, nil
}

func (c *Client) GetWorkLogs(
	filter SessionFilter,
) ([]*models.WorkLog, error) {
	var workLogs []*models.WorkLog

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(workLogBucket)).Cursor()

		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			var workLog models.WorkLog

			err := json.Unmarshal(v, &workLog)
			if err != nil {
				return errStorage.Wrap(err)
			}

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

			workLogs = append(workLogs, &workLog)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(workLogs, func(a, b *models.WorkLog) int {
		return a.StartTime.Compare(b.StartTime)
	})

	return workLogs, nil
}
