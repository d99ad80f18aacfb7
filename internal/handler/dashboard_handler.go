package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hkwon327/timesheet-dashboard/internal/dto"
	"github.com/hkwon327/timesheet-dashboard/internal/models"
	"github.com/hkwon327/timesheet-dashboard/internal/service"
	appErrors "github.com/hkwon327/timesheet-dashboard/pkg/errors"
	"github.com/hkwon327/timesheet-dashboard/pkg/response"
)

type reviewSessions interface {
	Dashboard(viewer string) *service.DashboardSession
	WorkLog(viewer string) *service.WorkLogSession
	Validate(v interface{}) error
	Forget(viewer string)
}

type viewResolver interface {
	Resolve(ctx context.Context, viewer, urlRegion, urlStatus string) models.ViewDecision
}

// DashboardHandler exposes the reviewer dashboard.
type DashboardHandler struct {
	sessions reviewSessions
	views    viewResolver
	basePath string
}

// NewDashboardHandler constructs the handler. basePath is the public path of
// the dashboard route group, used to build redirects.
func NewDashboardHandler(sessions reviewSessions, views viewResolver, basePath string) *DashboardHandler {
	return &DashboardHandler{sessions: sessions, views: views, basePath: strings.TrimRight(basePath, "/")}
}

// Entry godoc
// @Summary Open the dashboard in the remembered view
// @Tags Dashboard
// @Param X-Viewer-ID header string false "Viewer id"
// @Success 307
// @Router /dashboard [get]
func (h *DashboardHandler) Entry(c *gin.Context) {
	decision := h.views.Resolve(c.Request.Context(), viewerFromContext(c), "", "")
	c.Redirect(http.StatusTemporaryRedirect, h.viewPath(decision, ""))
}

// Get godoc
// @Summary Dashboard for a region and status tab
// @Tags Dashboard
// @Produce json
// @Param X-Viewer-ID header string false "Viewer id"
// @Param region path string true "tennessee or kentucky"
// @Param status path string true "pending, approved, sent (confirmed) or all"
// @Param page query int false "Page number"
// @Success 200 {object} response.Envelope
// @Success 307
// @Failure 502 {object} response.Envelope
// @Router /dashboard/{region}/{status} [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	viewer := viewerFromContext(c)
	decision := h.views.Resolve(c.Request.Context(), viewer, c.Param("region"), c.Param("status"))
	if decision.Redirect {
		c.Redirect(http.StatusTemporaryRedirect, h.viewPath(decision, c.Request.URL.RawQuery))
		return
	}

	session := h.sessions.Dashboard(viewer)
	session.SetView(decision.Region, decision.Status)
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "page must be an integer"))
			return
		}
		session.SetPage(page)
	}

	if view := session.View(); !view.Loaded && view.Error == "" {
		if err := session.Load(c.Request.Context()); err != nil {
			response.Error(c, err)
			return
		}
	}
	h.respond(c, session.View())
}

// Reload godoc
// @Summary Refetch submissions and region tags
// @Tags Dashboard
// @Produce json
// @Param X-Viewer-ID header string false "Viewer id"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /dashboard/reload [post]
func (h *DashboardHandler) Reload(c *gin.Context) {
	session := h.sessions.Dashboard(viewerFromContext(c))
	if err := session.Load(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, session.View())
}

// Select godoc
// @Summary Change the selection in the current tab
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param X-Viewer-ID header string false "Viewer id"
// @Param payload body dto.SelectionRequest true "Selection"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/selection [put]
func (h *DashboardHandler) Select(c *gin.Context) {
	var req dto.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	if err := h.sessions.Validate(req); err != nil {
		response.Error(c, err)
		return
	}

	session := h.sessions.Dashboard(viewerFromContext(c))
	var err error
	switch {
	case len(req.IDs) == 0 && req.Checked == nil:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "checked is required without ids"))
		return
	case len(req.IDs) == 0:
		session.ToggleAll(*req.Checked)
	case req.Checked == nil:
		err = session.Toggle(req.IDs...)
	default:
		err = session.Select(req.IDs, *req.Checked)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, session.View())
}

// ClearSelection godoc
// @Summary Clear the selection
// @Tags Dashboard
// @Produce json
// @Param X-Viewer-ID header string false "Viewer id"
// @Success 200 {object} response.Envelope
// @Router /dashboard/selection [delete]
func (h *DashboardHandler) ClearSelection(c *gin.Context) {
	session := h.sessions.Dashboard(viewerFromContext(c))
	session.ClearSelection()
	h.respond(c, session.View())
}

// Apply godoc
// @Summary Apply an action to every selected submission in the tab
// @Description The batch is all-or-nothing from the dashboard's point of view: on any failure the dashboard keeps its previous state.
// @Tags Dashboard
// @Produce json
// @Param X-Viewer-ID header string false "Viewer id"
// @Param action path string true "approve, send (confirm) or delete"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /dashboard/actions/{action} [post]
func (h *DashboardHandler) Apply(c *gin.Context) {
	action, ok := models.ParseAction(c.Param("action"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown action"))
		return
	}
	session := h.sessions.Dashboard(viewerFromContext(c))
	result, err := session.Apply(c.Request.Context(), action)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.BulkActionResponse{Result: result, Dashboard: session.View()}, nil)
}

func (h *DashboardHandler) respond(c *gin.Context, view dto.DashboardView) {
	pagination := view.Pagination
	response.JSON(c, http.StatusOK, view, &pagination)
}

func (h *DashboardHandler) viewPath(decision models.ViewDecision, rawQuery string) string {
	path := h.basePath + "/" + url.PathEscape(string(decision.Region)) + "/" + url.PathEscape(string(decision.Status))
	if rawQuery != "" {
		path += "?" + rawQuery
	}
	return path
}
