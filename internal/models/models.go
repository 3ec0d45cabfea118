// Package models defines the records persisted by the data store.
package models

import "time"

// Status is the lifecycle state of a time session. It is the single source
// of truth for a session's state; EndTime and PausedAt nullability are
// derived invariants.
type Status string

const (
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Metadata holds the free-form classification fields of a session. All
// fields are optional and mutable until the session is terminal.
type Metadata struct {
	Description      string `json:"description"`
	Module           string `json:"module"`
	TaskCategory     string `json:"task_category"`
	WorkCategory     string `json:"work_category"`
	SeverityCategory string `json:"severity_category"`
	SourceCategory   string `json:"source_category"`
	TicketReference  string `json:"ticket_reference"`
}

// TimeSession represents one unit of tracked work.
type TimeSession struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ProjectID string `json:"project_id"`

	Metadata

	// StartTime is set at creation and never changes.
	StartTime time.Time `json:"start_time"`
	// EndTime is zero until the session transitions to COMPLETED or
	// CANCELLED, and is set exactly once.
	EndTime time.Time `json:"end_time"`
	// PausedAt is the start of the currently open pause interval. It is
	// zero unless Status is paused.
	PausedAt time.Time `json:"paused_at"`
	// PausedDuration is the cumulative time spent paused. It never
	// decreases.
	PausedDuration time.Duration `json:"paused_duration"`

	Status Status `json:"status"`

	// WorkLogID links to the work log produced from this session. Its
	// presence is definitive proof of conversion.
	WorkLogID string `json:"work_log_id,omitempty"`
}

// Converted reports whether the session has already produced a work log.
func (s *TimeSession) Converted() bool {
	return s.WorkLogID != ""
}

// WorkLog is an immutable record of completed, billable work derived from a
// session. Its duration is frozen at creation and never recomputed.
type WorkLog struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ProjectID string `json:"project_id"`

	// SourceSessionID back-references the originating session for audit.
	// It is never used to re-derive ownership.
	SourceSessionID string `json:"source_session_id,omitempty"`

	Metadata

	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}
