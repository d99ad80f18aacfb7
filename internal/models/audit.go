package models

import "time"

// Transition outcomes recorded in the audit table.
const (
	TransitionCommitted = "COMMITTED"
	TransitionFailed    = "FAILED"
)

// TransitionAudit is one status-change attempt against a submission.
type TransitionAudit struct {
	ID           string    `db:"id" json:"id"`
	SubmissionID int64     `db:"submission_id" json:"submission_id"`
	FromStatus   Status    `db:"from_status" json:"from_status"`
	ToStatus     Status    `db:"to_status" json:"to_status"`
	Viewer       string    `db:"viewer" json:"viewer"`
	Outcome      string    `db:"outcome" json:"outcome"`
	Error        *string   `db:"error" json:"error,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// TransitionEvent is published after a status change is committed.
type TransitionEvent struct {
	Type         string    `json:"type"`
	SubmissionID int64     `json:"submission_id"`
	FromStatus   Status    `json:"from_status"`
	ToStatus     Status    `json:"to_status"`
	Viewer       string    `json:"viewer,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// EventStatusChanged is the TransitionEvent type.
const EventStatusChanged = "submission.status_changed"
