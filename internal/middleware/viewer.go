package middleware

import (
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	"github.com/hkwon327/timesheet-dashboard/pkg/logger"
)

const (
	// ContextViewerKey holds the viewer id for the request.
	ContextViewerKey = "viewer"
	// DefaultViewer is used when the request names no viewer.
	DefaultViewer = "default"

	maxViewerLength = 128
)

// Viewer resolves the reviewer a request belongs to from the X-Viewer-ID header.
func Viewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextViewerKey, normalizeViewer(c.GetHeader(logger.ViewerHeader)))
		c.Next()
	}
}

// ViewerFrom returns the viewer stored by Viewer, or DefaultViewer.
func ViewerFrom(c *gin.Context) string {
	if value, ok := c.Get(ContextViewerKey); ok {
		if viewer, ok := value.(string); ok && viewer != "" {
			return viewer
		}
	}
	return DefaultViewer
}

func normalizeViewer(raw string) string {
	viewer := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
	if viewer == "" {
		return DefaultViewer
	}
	if len(viewer) > maxViewerLength {
		viewer = viewer[:maxViewerLength]
	}
	return viewer
}
