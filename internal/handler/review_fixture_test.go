package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hkwon327/timesheet-dashboard/internal/middleware"
	"github.com/hkwon327/timesheet-dashboard/internal/models"
	"github.com/hkwon327/timesheet-dashboard/internal/repository"
	"github.com/hkwon327/timesheet-dashboard/internal/service"
	appErrors "github.com/hkwon327/timesheet-dashboard/pkg/errors"
	"github.com/hkwon327/timesheet-dashboard/pkg/logger"
)

type fakeBackend struct {
	mu        sync.Mutex
	items     []models.Submission
	schedules map[int64][]models.ScheduleEntry
	updateErr error
	updated   map[int64]models.Status
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{schedules: map[int64][]models.ScheduleEntry{}, updated: map[int64]models.Status{}}
	b.items = []models.Submission{
		testSubmission(1, models.StatusPending),
		testSubmission(2, models.StatusPending),
		testSubmission(3, models.StatusApproved),
	}
	for _, item := range b.items {
		b.schedules[item.ID] = []models.ScheduleEntry{{Day: "Mon", Time: "8:00 AM - 4:00 PM", Location: "KY SK Trailer"}}
	}
	return b
}

func testSubmission(id int64, status models.Status) models.Submission {
	return models.Submission{
		ID:               id,
		EmployeeName:     "Employee",
		RequestDate:      models.NewDate(2024, 3, 1),
		ServiceWeekStart: models.NewDate(2024, 3, 4),
		Status:           status,
		TotalHours:       models.Hours(8),
		PDFFilename:      "form.pdf",
	}
}

func (b *fakeBackend) List(context.Context) ([]models.Submission, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Submission, len(b.items))
	for i, item := range b.items {
		if status, ok := b.updated[item.ID]; ok {
			item.Status = status
		}
		out[i] = item
	}
	return out, nil
}

func (b *fakeBackend) Detail(_ context.Context, id int64, _ bool) (*models.SubmissionDetail, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, item := range b.items {
		if item.ID != id {
			continue
		}
		if status, ok := b.updated[id]; ok {
			item.Status = status
		}
		return &models.SubmissionDetail{Submission: item, Schedule: b.schedules[id], PreviewURL: "https://files.example.com/form.pdf"}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
}

func (b *fakeBackend) UpdateStatus(_ context.Context, id int64, status models.Status) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.updateErr != nil {
		return b.updateErr
	}
	b.updated[id] = status
	return nil
}

type reviewFixture struct {
	router   *gin.Engine
	backend  *fakeBackend
	registry *service.SessionRegistry
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := newFakeBackend()
	prefs := service.NewPreferencesService(repository.NewMemoryPreferencesStore(), models.RegionKentucky, zap.NewNop())
	registry := service.NewSessionRegistry(service.SessionDeps{
		Backend:     backend,
		Tagger:      service.NewRegionTagger(backend, "KY SK Trailer", zap.NewNop()),
		Workflow:    service.NewStatusWorkflow(backend, zap.NewNop()),
		Preferences: prefs,
		Dashboard:   service.DashboardConfig{PageSize: 10},
	}, nil, zap.NewNop())

	dashboard := NewDashboardHandler(registry, prefs, "/api/v1/dashboard")
	worklogs := NewWorkLogHandler(registry, nil)
	preferences := NewPreferencesHandler(prefs, registry)
	exports := NewExportHandler(registry, service.NewExportService(zap.NewNop(), nil, nil))

	r := gin.New()
	r.Use(middleware.Viewer())
	api := r.Group("/api/v1")
	api.GET("/dashboard", dashboard.Entry)
	api.GET("/dashboard/export", exports.Dashboard)
	api.POST("/dashboard/reload", dashboard.Reload)
	api.PUT("/dashboard/selection", dashboard.Select)
	api.DELETE("/dashboard/selection", dashboard.ClearSelection)
	api.POST("/dashboard/actions/:action", dashboard.Apply)
	api.GET("/dashboard/:region/:status", dashboard.Get)
	api.GET("/worklogs/:id", worklogs.Get)
	api.PATCH("/worklogs/:id/status", worklogs.UpdateStatus)
	api.GET("/worklogs/:id/history", worklogs.History)
	api.GET("/worklogs/:id/export", exports.WorkLog)
	api.GET("/preferences", preferences.Get)
	api.GET("/preferences/view", preferences.View)
	api.DELETE("/preferences", preferences.Clear)

	return &reviewFixture{router: r, backend: backend, registry: registry}
}

func (f *reviewFixture) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(logger.ViewerHeader, "alice")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var envelope map[string]interface{}
	if rec.Body.Len() > 0 && rec.Code != http.StatusTemporaryRedirect {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func dataOf(t *testing.T, envelope map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", envelope)
	return data
}

func errorCode(envelope map[string]interface{}) string {
	errObj, _ := envelope["error"].(map[string]interface{})
	code, _ := errObj["code"].(string)
	return code
}
