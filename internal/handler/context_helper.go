package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hkwon327/timesheet-dashboard/internal/middleware"
	appErrors "github.com/hkwon327/timesheet-dashboard/pkg/errors"
)

func viewerFromContext(c *gin.Context) string {
	return middleware.ViewerFrom(c)
}

// submissionIDParam reads the :id path parameter. "last" maps to 0, which
// reopens the viewer's last submission.
func submissionIDParam(c *gin.Context) (int64, error) {
	raw := strings.TrimSpace(c.Param("id"))
	if strings.EqualFold(raw, "last") {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "id must be a positive integer or \"last\"")
	}
	return id, nil
}
