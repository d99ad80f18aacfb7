package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hkwon327/timesheet-dashboard/internal/dto"
	appErrors "github.com/hkwon327/timesheet-dashboard/pkg/errors"
	"github.com/hkwon327/timesheet-dashboard/pkg/response"
)

type documentResolver interface {
	Resolve(ctx context.Context, name string) (*dto.DocumentLink, error)
}

// DocumentHandler resolves stored work-hours PDFs.
type DocumentHandler struct {
	documents documentResolver
}

// NewDocumentHandler constructs the handler.
func NewDocumentHandler(documents documentResolver) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// Resolve godoc
// @Summary Resolve a stored PDF name to a viewable URL
// @Description Tries the name as stored, with underscores and spaces swapped, then the same under the storage prefix.
// @Tags Documents
// @Produce json
// @Param filename path string true "Stored PDF name"
// @Param redirect query bool false "Redirect to the URL instead of returning it"
// @Success 200 {object} response.Envelope
// @Success 302
// @Failure 404 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /documents/{filename} [get]
func (h *DocumentHandler) Resolve(c *gin.Context) {
	if h.documents == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	name := strings.TrimPrefix(c.Param("filename"), "/")
	link, err := h.documents.Resolve(c.Request.Context(), name)
	if err != nil {
		response.Error(c, err)
		return
	}
	switch strings.ToLower(c.Query("redirect")) {
	case "1", "true":
		c.Redirect(http.StatusFound, link.URL)
		return
	}
	response.JSON(c, http.StatusOK, link, nil)
}
