// Package tracker maintains the per-user live view of non-terminal sessions
// and recomputes displayed elapsed time on a fixed tick.
package tracker

import (
	"time"

	"github.com/ryz3006/alignzo/internal/models"
	"github.com/ryz3006/alignzo/internal/timeutil"
)

// Lister supplies the user's non-terminal sessions.
type Lister interface {
	Active(userID string) ([]*models.TimeSession, error)
}

// Registry is the live view over a user's RUNNING and PAUSED sessions. It is
// read-only with respect to session state: it never writes to the store.
type Registry struct {
	lister Lister
	userID string

	sessions  []*models.TimeSession
	displayed map[string]time.Duration
}

func NewRegistry(lister Lister, userID string) *Registry {
	return &Registry{
		lister:    lister,
		userID:    userID,
		displayed: make(map[string]time.Duration),
	}
}

// Refresh reloads the set of non-terminal sessions and freezes the displayed
// duration of PAUSED sessions as of their pause moment. Frozen durations are
// recomputed only here, on state change, so a paused entry never gives the
// impression of a running clock.
func (r *Registry) Refresh(now time.Time) error {
	sessions, err := r.lister.Active(r.userID)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(sessions))

	for _, sess := range sessions {
		seen[sess.ID] = struct{}{}

		switch sess.Status {
		case models.StatusPaused:
			r.displayed[sess.ID] = timeutil.ActiveDuration(
				sess.StartTime,
				sess.PausedAt,
				sess.PausedDuration,
			)
		case models.StatusRunning:
			r.bump(sess, now)
		}
	}

	for id := range r.displayed {
		if _, ok := seen[id]; !ok {
			delete(r.displayed, id)
		}
	}

	r.sessions = sessions

	return nil
}

// Tick recomputes the displayed elapsed time of RUNNING sessions. PAUSED
// sessions keep their frozen value until the next state change.
func (r *Registry) Tick(now time.Time) {
	for _, sess := range r.sessions {
		if sess.Status == models.StatusRunning {
			r.bump(sess, now)
		}
	}
}

// bump updates a running session's displayed duration, never letting it
// decrease between ticks even if the clock jumps backwards.
func (r *Registry) bump(sess *models.TimeSession, now time.Time) {
	elapsed := timeutil.ActiveDuration(
		sess.StartTime,
		now,
		sess.PausedDuration,
	)

	if elapsed > r.displayed[sess.ID] {
		r.displayed[sess.ID] = elapsed
	}
}

// Sessions returns the current non-terminal sessions in start-time order.
func (r *Registry) Sessions() []*models.TimeSession {
	return r.sessions
}

// Elapsed returns the displayed elapsed time for a session.
func (r *Registry) Elapsed(id string) time.Duration {
	return r.displayed[id]
}

// LiveElapsed computes the elapsed active time a session would display at
// the given moment. It is pure and read-only: RUNNING sessions count up to
// now, PAUSED sessions are frozen at their pause moment, and terminal
// sessions report their final duration.
func LiveElapsed(sess *models.TimeSession, now time.Time) time.Duration {
	switch sess.Status {
	case models.StatusRunning:
		return timeutil.ActiveDuration(
			sess.StartTime,
			now,
			sess.PausedDuration,
		)
	case models.StatusPaused:
		return timeutil.ActiveDuration(
			sess.StartTime,
			sess.PausedAt,
			sess.PausedDuration,
		)
	default:
		return timeutil.ActiveDuration(
			sess.StartTime,
			sess.EndTime,
			sess.PausedDuration,
		)
	}
}
