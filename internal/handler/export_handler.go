package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hkwon327/timesheet-dashboard/internal/dto"
	"github.com/hkwon327/timesheet-dashboard/internal/service"
	"github.com/hkwon327/timesheet-dashboard/pkg/response"
)

type viewExporter interface {
	WorkLog(view dto.WorkLogView, format service.ExportFormat) (*service.ExportResult, error)
	Dashboard(view dto.DashboardView, format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler serves work logs and dashboard pages as CSV or PDF downloads.
type ExportHandler struct {
	sessions reviewSessions
	exporter viewExporter
}

// NewExportHandler constructs the handler.
func NewExportHandler(sessions reviewSessions, exporter viewExporter) *ExportHandler {
	return &ExportHandler{sessions: sessions, exporter: exporter}
}

// WorkLog godoc
// @Summary Download a work log
// @Tags WorkLogs
// @Produce application/pdf
// @Produce text/csv
// @Param X-Viewer-ID header string false "Viewer id"
// @Param id path string true "Submission id, or last"
// @Param format query string false "pdf (default) or csv"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /worklogs/{id}/export [get]
func (h *ExportHandler) WorkLog(c *gin.Context) {
	id, err := submissionIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	session := h.sessions.WorkLog(viewerFromContext(c))
	if view := session.View(); !view.Loaded || (id != 0 && view.ID != id) {
		if err := session.Load(c.Request.Context(), id); err != nil {
			response.Error(c, err)
			return
		}
	}
	result, err := h.exporter.WorkLog(session.View(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveExport(c, result)
}

// Dashboard godoc
// @Summary Download the current dashboard page
// @Tags Dashboard
// @Produce application/pdf
// @Produce text/csv
// @Param X-Viewer-ID header string false "Viewer id"
// @Param format query string false "pdf (default) or csv"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /dashboard/export [get]
func (h *ExportHandler) Dashboard(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exporter.Dashboard(h.sessions.Dashboard(viewerFromContext(c)).View(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveExport(c, result)
}

func serveExport(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Body)
}
