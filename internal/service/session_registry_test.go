package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hkwon327/timesheet-dashboard/internal/dto"
	"github.com/hkwon327/timesheet-dashboard/internal/models"
	"github.com/hkwon327/timesheet-dashboard/internal/repository"
	appErrors "github.com/hkwon327/timesheet-dashboard/pkg/errors"
)

func newTestRegistry(backend *backendStub) *SessionRegistry {
	tagger := NewRegionTagger(backend, "KY SK Trailer", zap.NewNop())
	return NewSessionRegistry(SessionDeps{
		Backend:     backend,
		Tagger:      tagger,
		Workflow:    NewStatusWorkflow(backend, zap.NewNop()),
		Preferences: NewPreferencesService(repository.NewMemoryPreferencesStore(), models.RegionKentucky, zap.NewNop()),
		Dashboard:   DashboardConfig{PageSize: 10},
	}, nil, zap.NewNop())
}

func TestSessionRegistryReusesSessionsPerViewer(t *testing.T) {
	registry := newTestRegistry(newBackendStub())

	assert.Same(t, registry.Dashboard("alice"), registry.Dashboard("alice"))
	assert.NotSame(t, registry.Dashboard("alice"), registry.Dashboard("bob"))
	assert.Same(t, registry.WorkLog("alice"), registry.WorkLog("alice"))
}

func TestSessionRegistryWorkLogUpdatesDashboard(t *testing.T) {
	backend := newBackendStub(submission(1, models.StatusApproved))
	backend.details[1] = &models.SubmissionDetail{Submission: submission(1, models.StatusApproved), Schedule: kentuckySchedule()}
	registry := newTestRegistry(backend)
	ctx := context.Background()

	dashboard := registry.Dashboard("alice")
	require.NoError(t, dashboard.Load(ctx))
	require.Equal(t, 1, dashboard.View().StatusCounts[models.TabApproved])

	worklog := registry.WorkLog("alice")
	require.NoError(t, worklog.Load(ctx, 1))
	require.NoError(t, worklog.UpdateStatus(ctx, models.StatusSent))

	view := dashboard.View()
	assert.Equal(t, 0, view.StatusCounts[models.TabApproved])
	assert.Equal(t, 1, view.StatusCounts[models.TabSent])
}

func TestSessionRegistrySweep(t *testing.T) {
	registry := newTestRegistry(newBackendStub())
	first := registry.Dashboard("alice")

	assert.Equal(t, 0, registry.Sweep(time.Hour))
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, registry.Sweep(time.Millisecond))
	assert.NotSame(t, first, registry.Dashboard("alice"))
}

func TestSessionRegistryValidate(t *testing.T) {
	registry := newTestRegistry(newBackendStub())

	assert.NoError(t, registry.Validate(dto.StatusUpdateRequest{Status: "confirmed"}))
	err := registry.Validate(dto.StatusUpdateRequest{Status: "pending"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	checked := true
	assert.NoError(t, registry.Validate(dto.SelectionRequest{Checked: &checked}))
	assert.Error(t, registry.Validate(dto.SelectionRequest{}))
	assert.Error(t, registry.Validate(dto.SelectionRequest{IDs: []int64{0}}))
}
