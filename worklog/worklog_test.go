package worklog_test

import (
	"testing"
	"time"

	"github.com/ryz3006/alignzo/internal/apperr"
	"github.com/ryz3006/alignzo/internal/models"
	"github.com/ryz3006/alignzo/internal/testutil"
	"github.com/ryz3006/alignzo/session"
	"github.com/ryz3006/alignzo/worklog"
)

var t0 = time.Date(2026, time.August, 3, 9, 0, 0, 0, time.UTC)

type allowAll struct{}

func (allowAll) HasPermission(userID, resource, action string) bool {
	return true
}

type openCatalog struct{}

func (openCatalog) Categories(projectID string) (*session.Categories, error) {
	return &session.Categories{}, nil
}

func setup(t *testing.T) (*session.Engine, *worklog.Converter, *testutil.DB) {
	t.Helper()

	db := testutil.NewDB()
	engine := session.NewEngine(db, allowAll{}, openCatalog{})
	converter := worklog.NewConverter(db, allowAll{})

	return engine, converter, db
}

func completedSession(
	t *testing.T,
	engine *session.Engine,
) *models.TimeSession {
	t.Helper()

	sess, err := engine.Start("ada", "apollo", models.Metadata{
		Description:     "quarterly reconciliation",
		Module:          "billing",
		TaskCategory:    "development",
		TicketReference: "ALZ-88",
	}, t0)
	if err != nil {
		t.Fatal(err)
	}

	if _, err = engine.Pause(sess.ID, "ada", t0.Add(10*time.Minute)); err != nil {
		t.Fatal(err)
	}

	if _, err = engine.Resume(sess.ID, "ada", t0.Add(15*time.Minute)); err != nil {
		t.Fatal(err)
	}

	stopped, err := engine.Stop(sess.ID, "ada", t0.Add(20*time.Minute))
	if err != nil {
		t.Fatal(err)
	}

	return stopped
}

func TestConvert(t *testing.T) {
	engine, converter, _ := setup(t)
	sess := completedSession(t, engine)

	created := t0.Add(time.Hour)

	workLog, err := converter.Convert(sess.ID, "ada", created)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	// 20 minutes of wall-clock time minus 5 minutes paused.
	if workLog.Duration != 15*time.Minute {
		t.Errorf(
			"expected a frozen duration of 15m, got %v",
			workLog.Duration,
		)
	}

	if workLog.SourceSessionID != sess.ID {
		t.Errorf(
			"expected source session id %s, got %s",
			sess.ID,
			workLog.SourceSessionID,
		)
	}

	if workLog.Description != sess.Description ||
		workLog.Module != sess.Module ||
		workLog.TaskCategory != sess.TaskCategory ||
		workLog.TicketReference != sess.TicketReference {
		t.Error("expected classification metadata to be copied verbatim")
	}

	if !workLog.CreatedAt.Equal(created) {
		t.Errorf("expected created at %v, got %v", created, workLog.CreatedAt)
	}
}

func TestConvertIsIdempotent(t *testing.T) {
	engine, converter, db := setup(t)
	sess := completedSession(t, engine)

	first, err := converter.Convert(sess.ID, "ada", t0.Add(time.Hour))
	if err != nil {
		t.Fatalf("first convert failed: %v", err)
	}

	second, err := converter.Convert(sess.ID, "ada", t0.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("second convert failed: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf(
			"retrying a conversion must return the same work log, got %s and %s",
			first.ID,
			second.ID,
		)
	}

	if got := db.WorkLogCount(); got != 1 {
		t.Fatalf("expected exactly one work log, got %d", got)
	}

	updated, err := engine.Get(sess.ID, "ada")
	if err != nil {
		t.Fatal(err)
	}

	if updated.WorkLogID != first.ID {
		t.Fatalf(
			"expected session linkage %s, got %s",
			first.ID,
			updated.WorkLogID,
		)
	}

	if !updated.Converted() {
		t.Fatal("expected the session to report itself converted")
	}
}

func TestConvertRejectsNonCompleted(t *testing.T) {
	cases := []struct {
		name    string
		prepare func(e *session.Engine, id string) error
	}{
		{
			name:    "running session",
			prepare: func(e *session.Engine, id string) error { return nil },
		},
		{
			name: "paused session",
			prepare: func(e *session.Engine, id string) error {
				_, err := e.Pause(id, "ada", t0.Add(time.Minute))
				return err
			},
		},
		{
			name: "cancelled session",
			prepare: func(e *session.Engine, id string) error {
				_, err := e.Cancel(id, "ada", t0.Add(time.Minute))
				return err
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine, converter, db := setup(t)

			sess, err := engine.Start("ada", "apollo", models.Metadata{}, t0)
			if err != nil {
				t.Fatal(err)
			}

			if err := tc.prepare(engine, sess.ID); err != nil {
				t.Fatal(err)
			}

			_, err = converter.Convert(sess.ID, "ada", t0.Add(time.Hour))
			if apperr.KindOf(err) != apperr.KindNotConvertible {
				t.Fatalf("expected not-convertible error, got %v", err)
			}

			if got := db.WorkLogCount(); got != 0 {
				t.Fatalf("expected no work logs, got %d", got)
			}
		})
	}
}

func TestConvertUnknownSession(t *testing.T) {
	_, converter, _ := setup(t)

	_, err := converter.Convert("no-such-id", "ada", t0)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestConvertForeignUser(t *testing.T) {
	engine, converter, db := setup(t)
	sess := completedSession(t, engine)

	_, err := converter.Convert(sess.ID, "mallory", t0.Add(time.Hour))
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}

	if got := db.WorkLogCount(); got != 0 {
		t.Fatalf("expected no work logs, got %d", got)
	}
}

func TestConvertForeignUserAfterConversion(t *testing.T) {
	engine, converter, db := setup(t)
	sess := completedSession(t, engine)

	if _, err := converter.Convert(sess.ID, "ada", t0.Add(time.Hour)); err != nil {
		t.Fatalf("owner convert failed: %v", err)
	}

	// A converted session must not leak its work log to another principal
	// on a retry; ownership is rechecked ahead of the idempotent replay.
	workLog, err := converter.Convert(sess.ID, "mallory", t0.Add(2*time.Hour))
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}

	if workLog != nil {
		t.Fatalf("expected no work log for a foreign user, got %+v", workLog)
	}

	if got := db.WorkLogCount(); got != 1 {
		t.Fatalf("expected exactly one work log, got %d", got)
	}
}
