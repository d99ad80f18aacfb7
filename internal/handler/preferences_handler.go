package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hkwon327/timesheet-dashboard/internal/models"
	"github.com/hkwon327/timesheet-dashboard/pkg/response"
)

type preferencesService interface {
	Get(ctx context.Context, viewer string) models.ViewPreferences
	Resolve(ctx context.Context, viewer, urlRegion, urlStatus string) models.ViewDecision
	Clear(ctx context.Context, viewer string) error
}

type sessionForgetter interface {
	Forget(viewer string)
}

// PreferencesHandler exposes the viewer's remembered dashboard view.
type PreferencesHandler struct {
	prefs    preferencesService
	sessions sessionForgetter
}

// NewPreferencesHandler constructs the handler.
func NewPreferencesHandler(prefs preferencesService, sessions sessionForgetter) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs, sessions: sessions}
}

// Get godoc
// @Summary Stored view preferences
// @Tags Preferences
// @Produce json
// @Param X-Viewer-ID header string false "Viewer id"
// @Success 200 {object} response.Envelope
// @Router /preferences [get]
func (h *PreferencesHandler) Get(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.prefs.Get(c.Request.Context(), viewerFromContext(c)), nil)
}

// View godoc
// @Summary Resolve which dashboard view to show
// @Tags Preferences
// @Produce json
// @Param X-Viewer-ID header string false "Viewer id"
// @Param region query string false "Requested region"
// @Param status query string false "Requested status tab"
// @Success 200 {object} response.Envelope
// @Router /preferences/view [get]
func (h *PreferencesHandler) View(c *gin.Context) {
	decision := h.prefs.Resolve(c.Request.Context(), viewerFromContext(c), c.Query("region"), c.Query("status"))
	response.JSON(c, http.StatusOK, decision, nil)
}

// Clear godoc
// @Summary Forget the viewer's preferences and sessions
// @Tags Preferences
// @Param X-Viewer-ID header string false "Viewer id"
// @Success 204
// @Router /preferences [delete]
func (h *PreferencesHandler) Clear(c *gin.Context) {
	viewer := viewerFromContext(c)
	if err := h.prefs.Clear(c.Request.Context(), viewer); err != nil {
		response.Error(c, err)
		return
	}
	if h.sessions != nil {
		h.sessions.Forget(viewer)
	}
	response.NoContent(c)
}
