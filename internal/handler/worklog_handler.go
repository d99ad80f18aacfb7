package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hkwon327/timesheet-dashboard/internal/dto"
	"github.com/hkwon327/timesheet-dashboard/internal/models"
	appErrors "github.com/hkwon327/timesheet-dashboard/pkg/errors"
	"github.com/hkwon327/timesheet-dashboard/pkg/response"
)

const defaultHistoryLimit = 50

type transitionHistory interface {
	ListBySubmission(ctx context.Context, submissionID int64, limit int) ([]models.TransitionAudit, error)
}

// WorkLogHandler exposes the per-submission detail view.
type WorkLogHandler struct {
	sessions reviewSessions
	history  transitionHistory
}

// NewWorkLogHandler constructs the handler. history may be nil when auditing is disabled.
func NewWorkLogHandler(sessions reviewSessions, history transitionHistory) *WorkLogHandler {
	return &WorkLogHandler{sessions: sessions, history: history}
}

// Get godoc
// @Summary Work log detail
// @Tags WorkLogs
// @Produce json
// @Param X-Viewer-ID header string false "Viewer id"
// @Param id path string true "Submission id, or last"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /worklogs/{id} [get]
func (h *WorkLogHandler) Get(c *gin.Context) {
	id, err := submissionIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	session := h.sessions.WorkLog(viewerFromContext(c))
	if err := session.Load(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session.View(), nil)
}

// UpdateStatus godoc
// @Summary Change a submission's status
// @Description The new status is shown at once and reverted if the backend rejects it.
// @Tags WorkLogs
// @Accept json
// @Produce json
// @Param X-Viewer-ID header string false "Viewer id"
// @Param id path int true "Submission id"
// @Param payload body dto.StatusUpdateRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /worklogs/{id}/status [patch]
func (h *WorkLogHandler) UpdateStatus(c *gin.Context) {
	id, err := submissionIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	if err := h.sessions.Validate(req); err != nil {
		response.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	session := h.sessions.WorkLog(viewerFromContext(c))
	if view := session.View(); !view.Loaded || (id != 0 && view.ID != id) {
		if err := session.Load(ctx, id); err != nil {
			response.Error(c, err)
			return
		}
	}
	if err := session.UpdateStatus(ctx, models.ParseStatus(req.Status)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session.View(), nil)
}

// History godoc
// @Summary Recorded status transitions for a submission
// @Tags WorkLogs
// @Produce json
// @Param id path int true "Submission id"
// @Param limit query int false "Maximum entries (default 50)"
// @Success 200 {object} response.Envelope
// @Router /worklogs/{id}/history [get]
func (h *WorkLogHandler) History(c *gin.Context) {
	id, err := submissionIDParam(c)
	if err != nil || id == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id must be a positive integer"))
		return
	}
	if h.history == nil {
		response.JSON(c, http.StatusOK, []models.TransitionAudit{}, nil)
		return
	}
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	entries, err := h.history.ListBySubmission(c.Request.Context(), id, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
