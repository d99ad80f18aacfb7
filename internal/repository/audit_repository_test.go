package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/hkwon327/timesheet-dashboard/internal/models"
)

func newAuditRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTransitionAuditRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()

	repo := NewTransitionAuditRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO submission_status_audit")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.TransitionAudit{
		SubmissionID: 12,
		FromStatus:   models.StatusPending,
		ToStatus:     models.StatusApproved,
		Viewer:       "manager-1",
		Outcome:      models.TransitionCommitted,
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	require.NotEmpty(t, entry.ID)
	require.False(t, entry.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionAuditRepositoryListBySubmission(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()

	repo := NewTransitionAuditRepository(db)
	msg := "already sent"
	rows := sqlmock.NewRows([]string{"id", "submission_id", "from_status", "to_status", "viewer", "outcome", "error", "created_at"}).
		AddRow("a-2", 12, "approved", "sent", "manager-1", "FAILED", msg, time.Now()).
		AddRow("a-1", 12, "pending", "approved", "manager-1", "COMMITTED", nil, time.Now().Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, submission_id, from_status")).
		WithArgs(int64(12), 50).
		WillReturnRows(rows)

	entries, err := repo.ListBySubmission(context.Background(), 12, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, models.StatusSent, entries[0].ToStatus)
	require.NotNil(t, entries[0].Error)
	require.Nil(t, entries[1].Error)
	require.NoError(t, mock.ExpectationsWereMet())
}
