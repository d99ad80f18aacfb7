package dto

import (
	"time"

	"github.com/hkwon327/timesheet-dashboard/internal/models"
	"github.com/hkwon327/timesheet-dashboard/internal/schedule"
)

// SelectionRequest toggles submissions in the current dashboard tab.
// Without IDs, Checked applies to every submission in the tab.
type SelectionRequest struct {
	IDs     []int64 `json:"ids" validate:"omitempty,dive,gt=0"`
	Checked *bool   `json:"checked" validate:"required_without=IDs"`
}

// StatusUpdateRequest asks for a single work-log transition.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,review_status"`
}

// DashboardRow is one submission in the dashboard table.
type DashboardRow struct {
	ID            int64           `json:"id"`
	EmployeeName  string          `json:"employeeName"`
	RequestorName string          `json:"requestorName"`
	RequestDate   string          `json:"requestDate"`
	ServiceWeek   string          `json:"serviceWeek"`
	Status        models.Status   `json:"status"`
	StatusName    string          `json:"statusName"`
	Region        models.Region   `json:"region"`
	Hours         string          `json:"hours"`
	Selected      bool            `json:"selected"`
	Actions       []models.Action `json:"actions"`
}

// DashboardView is the reviewer's current dashboard state.
type DashboardView struct {
	Loaded        bool                  `json:"loaded"`
	Error         string                `json:"error,omitempty"`
	LoadedAt      *time.Time            `json:"loadedAt,omitempty"`
	Region        models.Region         `json:"region"`
	RegionName    string                `json:"regionName"`
	Status        models.Tab            `json:"status"`
	Title         string                `json:"title"`
	RegionCounts  map[models.Region]int `json:"regionCounts"`
	StatusCounts  map[models.Tab]int    `json:"statusCounts"`
	Rows          []DashboardRow        `json:"rows"`
	Pagination    models.Pagination     `json:"pagination"`
	SelectedIDs   []int64               `json:"selectedIds"`
	SelectedInTab int                   `json:"selectedInTab"`
	AllSelected   bool                  `json:"allSelected"`
	Actions       []models.Action       `json:"actions"`
}

// BulkActionResult reports a committed dashboard action.
type BulkActionResult struct {
	Action models.Action `json:"action"`
	Target models.Status `json:"target"`
	IDs    []int64       `json:"ids"`
}

// WorkLogView is the detail page for one submission.
type WorkLogView struct {
	ID               int64            `json:"id"`
	Loaded           bool             `json:"loaded"`
	Error            string           `json:"error,omitempty"`
	EmployeeName     string           `json:"employeeName"`
	RequestorName    string           `json:"requestorName"`
	RequestDate      string           `json:"requestDate"`
	ServiceWeekStart string           `json:"serviceWeekStart"`
	ServiceWeekEnd   string           `json:"serviceWeekEnd"`
	Status           models.Status    `json:"status"`
	StatusName       string           `json:"statusName"`
	Region           models.Region    `json:"region"`
	Rows             []schedule.Row   `json:"rows"`
	TotalHours       float64          `json:"totalHours"`
	TotalHoursText   string           `json:"totalHoursText"`
	MissedDays       int              `json:"missedDays"`
	Series           []schedule.Point `json:"series"`
	PreviewURL       string           `json:"previewUrl,omitempty"`
	PreviewError     string           `json:"previewError,omitempty"`
	ActionError      string           `json:"actionError,omitempty"`
	Updating         bool             `json:"updating"`
	Actions          []models.Action  `json:"actions"`
}

// DocumentLink is a resolved stored document.
type DocumentLink struct {
	Filename string `json:"filename"`
	Key      string `json:"key"`
	URL      string `json:"url"`
	Probes   int    `json:"probes"`
}

// BulkActionResponse is the committed action together with the refreshed dashboard.
type BulkActionResponse struct {
	Result    *BulkActionResult `json:"result"`
	Dashboard DashboardView     `json:"dashboard"`
}
