package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hkwon327/timesheet-dashboard/internal/models"
)

// TransitionAuditRepository persists status-change attempts.
type TransitionAuditRepository struct {
	db *sqlx.DB
}

// NewTransitionAuditRepository constructs the repository.
func NewTransitionAuditRepository(db *sqlx.DB) *TransitionAuditRepository {
	return &TransitionAuditRepository{db: db}
}

// Create inserts one audit row, assigning an ID and timestamp when missing.
func (r *TransitionAuditRepository) Create(ctx context.Context, entry *models.TransitionAudit) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO submission_status_audit
	(id, submission_id, from_status, to_status, viewer, outcome, error, created_at)
	VALUES (:id, :submission_id, :from_status, :to_status, :viewer, :outcome, :error, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create transition audit: %w", err)
	}
	return nil
}

// ListBySubmission returns the newest attempts for a submission first.
func (r *TransitionAuditRepository) ListBySubmission(ctx context.Context, submissionID int64, limit int) ([]models.TransitionAudit, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const query = `SELECT id, submission_id, from_status, to_status, viewer, outcome, error, created_at
	FROM submission_status_audit WHERE submission_id = $1 ORDER BY created_at DESC LIMIT $2`
	var entries []models.TransitionAudit
	if err := r.db.SelectContext(ctx, &entries, query, submissionID, limit); err != nil {
		return nil, fmt.Errorf("list transition audit: %w", err)
	}
	return entries, nil
}
