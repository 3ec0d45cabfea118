package store_test

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/ryz3006/alignzo/internal/apperr"
	"github.com/ryz3006/alignzo/internal/models"
	"github.com/ryz3006/alignzo/store"
)

var t0 = time.Date(2026, time.August, 3, 9, 0, 0, 0, time.UTC)

func newClient(t *testing.T) *store.Client {
	t.Helper()

	client, err := store.NewClient(filepath.Join(t.TempDir(), "alignzo.db"))
	if err != nil {
		t.Fatalf("opening database failed: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func newSession() *models.TimeSession {
	return &models.TimeSession{
		ID:        uuid.NewString(),
		UserID:    "ada",
		ProjectID: "apollo",
		Metadata: models.Metadata{
			Description: "fix payment retries",
			Module:      "billing",
		},
		StartTime: t0,
		Status:    models.StatusRunning,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	client := newClient(t)

	sess := newSession()

	if err := client.CreateSession(sess); err != nil {
		t.Fatalf("creating session failed: %v", err)
	}

	got, err := client.GetSession(sess.ID)
	if err != nil {
		t.Fatalf("reading session failed: %v", err)
	}

	if diff := cmp.Diff(sess, got); diff != "" {
		t.Fatalf("session did not round-trip:\n%s", diff)
	}
}

func TestCreateSessionRejectsDuplicateID(t *testing.T) {
	client := newClient(t)

	sess := newSession()

	if err := client.CreateSession(sess); err != nil {
		t.Fatal(err)
	}

	err := client.CreateSession(sess)
	if apperr.KindOf(err) != apperr.KindStorage {
		t.Fatalf("expected a storage error for duplicate id, got %v", err)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	client := newClient(t)

	_, err := client.GetSession("missing")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestTransitionSessionRollsBackOnError(t *testing.T) {
	client := newClient(t)

	sess := newSession()

	if err := client.CreateSession(sess); err != nil {
		t.Fatal(err)
	}

	rejection := &apperr.Error{
		Kind:    apperr.KindInvalidTransition,
		Message: "rejected",
	}

	_, err := client.TransitionSession(sess.ID,
		func(s *models.TimeSession) error {
			s.Status = models.StatusCompleted
			s.EndTime = t0.Add(time.Hour)

			return rejection
		})
	if apperr.KindOf(err) != apperr.KindInvalidTransition {
		t.Fatalf("expected the rejection to surface, got %v", err)
	}

	got, err := client.GetSession(sess.ID)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(sess, got); diff != "" {
		t.Fatalf("session changed despite rolled-back transition:\n%s", diff)
	}
}

func TestTransitionsAreSerialized(t *testing.T) {
	client := newClient(t)

	sess := newSession()

	if err := client.CreateSession(sess); err != nil {
		t.Fatal(err)
	}

	// Many concurrent increments through TransitionSession must all
	// observe their predecessor's state.
	const workers = 16

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, _ = client.TransitionSession(sess.ID,
				func(s *models.TimeSession) error {
					s.PausedDuration += time.Minute
					return nil
				})
		}()
	}

	wg.Wait()

	got, err := client.GetSession(sess.ID)
	if err != nil {
		t.Fatal(err)
	}

	if got.PausedDuration != workers*time.Minute {
		t.Fatalf(
			"expected %v accumulated, got %v: a transition applied against stale state",
			workers*time.Minute,
			got.PausedDuration,
		)
	}
}

func TestConvertSessionIsAtomicAndUnique(t *testing.T) {
	client := newClient(t)

	sess := newSession()
	sess.Status = models.StatusCompleted
	sess.EndTime = t0.Add(30 * time.Minute)

	if err := client.CreateSession(sess); err != nil {
		t.Fatal(err)
	}

	check := func(s *models.TimeSession) error { return nil }

	build := func(s *models.TimeSession) (*models.WorkLog, error) {
		return &models.WorkLog{
			ID:              uuid.NewString(),
			UserID:          s.UserID,
			ProjectID:       s.ProjectID,
			SourceSessionID: s.ID,
			Metadata:        s.Metadata,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			Duration:        30 * time.Minute,
			CreatedAt:       t0.Add(time.Hour),
		}, nil
	}

	// Concurrent conversion attempts must produce exactly one work log.
	const attempts = 8

	results := make([]*models.WorkLog, attempts)
	createdFlags := make([]bool, attempts)

	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			workLog, created, err := client.ConvertSession(
				sess.ID,
				check,
				build,
			)
			if err != nil {
				t.Errorf("convert attempt %d failed: %v", i, err)
				return
			}

			results[i] = workLog
			createdFlags[i] = created
		}(i)
	}

	wg.Wait()

	first := results[0]

	for i, workLog := range results {
		if workLog == nil || workLog.ID != first.ID {
			t.Fatalf(
				"attempt %d returned a different work log: %+v",
				i,
				workLog,
			)
		}
	}

	var createdCount int

	for _, created := range createdFlags {
		if created {
			createdCount++
		}
	}

	if createdCount != 1 {
		t.Fatalf(
			"expected exactly one attempt to report a fresh conversion, got %d",
			createdCount,
		)
	}

	workLogs, err := client.GetWorkLogs(store.SessionFilter{UserID: "ada"})
	if err != nil {
		t.Fatal(err)
	}

	if len(workLogs) != 1 {
		t.Fatalf("expected exactly one work log, got %d", len(workLogs))
	}

	updated, err := client.GetSession(sess.ID)
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
}

func TestGetSessionsFilter(t *testing.T) {
	client := newClient(t)

	mk := func(user, project string, start time.Time, status models.Status) {
		t.Helper()

		sess := newSession()
		sess.ID = uuid.NewString()
		sess.UserID = user
		sess.ProjectID = project
		sess.StartTime = start
		sess.Status = status

		if err := client.CreateSession(sess); err != nil {
			t.Fatal(err)
		}
	}

	mk("ada", "apollo", t0, models.StatusRunning)
	mk("ada", "hermes", t0.Add(time.Hour), models.StatusPaused)
	mk("ada", "apollo", t0.Add(2*time.Hour), models.StatusCompleted)
	mk("grace", "apollo", t0, models.StatusRunning)

	cases := []struct {
		name   string
		filter store.SessionFilter
		want   int
	}{
		{
			name:   "by user",
			filter: store.SessionFilter{UserID: "ada"},
			want:   3,
		},
		{
			name:   "by project",
			filter: store.SessionFilter{UserID: "ada", ProjectID: "apollo"},
			want:   2,
		},
		{
			name: "by status",
			filter: store.SessionFilter{
				UserID: "ada",
				Statuses: []models.Status{
					models.StatusRunning,
					models.StatusPaused,
				},
			},
			want: 2,
		},
		{
			name: "by time range",
			filter: store.SessionFilter{
				UserID:    "ada",
				StartTime: t0.Add(30 * time.Minute),
				EndTime:   t0.Add(90 * time.Minute),
			},
			want: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := client.GetSessions(tc.filter)
			if err != nil {
				t.Fatal(err)
			}

			if len(got) != tc.want {
				t.Fatalf(
					"expected %d sessions, got %d",
					tc.want,
					len(got),
				)
			}

			for i := 1; i < len(got); i++ {
				if got[i].StartTime.Before(got[i-1].StartTime) {
					t.Fatal("sessions are not sorted by start time")
				}
			}
		})
	}
}

func TestDeleteSessions(t *testing.T) {
	client := newClient(t)

	first := newSession()
	second := newSession()

	for _, sess := range []*models.TimeSession{first, second} {
		if err := client.CreateSession(sess); err != nil {
			t.Fatal(err)
		}
	}

	if err := client.DeleteSessions([]string{first.ID}); err != nil {
		t.Fatal(err)
	}

	if _, err := client.GetSession(first.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected first session to be gone, got %v", err)
	}

	if _, err := client.GetSession(second.ID); err != nil {
		t.Fatalf("expected second session to survive, got %v", err)
	}
}

func TestConvertSessionChecksBeforeReplay(t *testing.T) {
	client := newClient(t)

	sess := newSession()
	sess.Status = models.StatusCompleted
	sess.EndTime = t0.Add(30 * time.Minute)

	if err := client.CreateSession(sess); err != nil {
		t.Fatal(err)
	}

	pass := func(s *models.TimeSession) error { return nil }
	deny := func(s *models.TimeSession) error {
		return &apperr.Error{
			Kind:    apperr.KindUnauthorized,
			Message: "not the session owner",
		}
	}

	build := func(s *models.TimeSession) (*models.WorkLog, error) {
		return &models.WorkLog{
			ID:              uuid.NewString(),
			UserID:          s.UserID,
			SourceSessionID: s.ID,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			Duration:        30 * time.Minute,
			CreatedAt:       t0.Add(time.Hour),
		}, nil
	}

	if _, _, err := client.ConvertSession(sess.ID, pass, build); err != nil {
		t.Fatal(err)
	}

	// The check must gate the stored-log replay path, not just creation.
	_, _, err := client.ConvertSession(sess.ID, deny, build)
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf(
			"expected the check to run before returning the existing log, got %v",
			err,
		)
	}
}

func TestGetWorkLogsFilter(t *testing.T) {
	client := newClient(t)

	mk := func(user, project string, start time.Time) {
		t.Helper()

		sess := newSession()
		sess.UserID = user
		sess.ProjectID = project
		sess.StartTime = start
		sess.Status = models.StatusCompleted
		sess.EndTime = start.Add(30 * time.Minute)

		if err := client.CreateSession(sess); err != nil {
			t.Fatal(err)
		}

		pass := func(s *models.TimeSession) error { return nil }

		_, _, err := client.ConvertSession(sess.ID, pass,
			func(s *models.TimeSession) (*models.WorkLog, error) {
				return &models.WorkLog{
					ID:              uuid.NewString(),
					UserID:          s.UserID,
					ProjectID:       s.ProjectID,
					SourceSessionID: s.ID,
					StartTime:       s.StartTime,
					EndTime:         s.EndTime,
					Duration:        30 * time.Minute,
					CreatedAt:       s.EndTime,
				}, nil
			})
		if err != nil {
			t.Fatal(err)
		}
	}

	mk("ada", "apollo", t0)
	mk("ada", "hermes", t0.Add(time.Hour))
	mk("ada", "apollo", t0.Add(2*time.Hour))
	mk("grace", "apollo", t0)

	cases := []struct {
		name   string
		filter store.SessionFilter
		want   int
	}{
		{
			name:   "by user",
			filter: store.SessionFilter{UserID: "ada"},
			want:   3,
		},
		{
			name:   "by project",
			filter: store.SessionFilter{UserID: "ada", ProjectID: "apollo"},
			want:   2,
		},
		{
			name: "by time range",
			filter: store.SessionFilter{
				UserID:    "ada",
				StartTime: t0.Add(30 * time.Minute),
				EndTime:   t0.Add(90 * time.Minute),
			},
			want: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := client.GetWorkLogs(tc.filter)
			if err != nil {
				t.Fatal(err)
			}

			if len(got) != tc.want {
				t.Fatalf(
					"expected %d work logs, got %d",
					tc.want,
					len(got),
				)
			}
		})
	}
}

func TestOpenLockedDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "alignzo.db")

	client, err := store.NewClient(dbPath)
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		_ = client.Close()
	})

	// A second open must give up after the lock timeout instead of
	// blocking forever.
	_, err = store.NewClient(dbPath)
	if err == nil {
		t.Fatal("expected an error opening a locked database")
	}

	if !strings.Contains(err.Error(), "already running") {
		t.Fatalf("expected the single-instance error, got %v", err)
	}
}
