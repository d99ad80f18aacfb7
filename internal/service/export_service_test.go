package service

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hkwon327/timesheet-dashboard/internal/dto"
	"github.com/hkwon327/timesheet-dashboard/internal/models"
	"github.com/hkwon327/timesheet-dashboard/internal/schedule"
	appErrors "github.com/hkwon327/timesheet-dashboard/pkg/errors"
	"github.com/hkwon327/timesheet-dashboard/pkg/export"
)

type failingRenderer struct{}

func (failingRenderer) Render(export.Dataset) ([]byte, error) {
	return nil, errors.New("disk full")
}

func loadedWorkLog() dto.WorkLogView {
	return dto.WorkLogView{
		ID:               7,
		Loaded:           true,
		EmployeeName:     "Jane Doe",
		RequestorName:    "John Roe",
		ServiceWeekStart: "2024-03-04",
		ServiceWeekEnd:   "2024-03-10",
		Status:           models.StatusPending,
		StatusName:       "Pending",
		Rows: []schedule.Row{
			{Label: "03/04/Mon", Time: "8:00 AM - 4:00 PM", Location: "BOSK Trailer", Shift: "Day", Hours: 8, Parsed: true},
			{Label: "03/05/Tue", Time: "off", Location: "BOSK Trailer"},
		},
		TotalHoursText: "8",
	}
}

func TestParseExportFormat(t *testing.T) {
	format, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatPDF, format)

	format, err = ParseExportFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatCSV, format)

	_, err = ParseExportFormat("xlsx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestExportServiceWorkLogCSV(t *testing.T) {
	svc := NewExportService(nil, nil, nil)

	result, err := svc.WorkLog(loadedWorkLog(), ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "worklog-7-Jane_Doe.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t,
		"Date,Time,Location,Shift,Hours\n03/04/Mon,8:00 AM - 4:00 PM,BOSK Trailer,Day,8\n03/05/Tue,off,BOSK Trailer,,\nTotal,,,,8\n",
		string(result.Body))
}

func TestExportServiceWorkLogPDF(t *testing.T) {
	svc := NewExportService(nil, nil, nil)

	result, err := svc.WorkLog(loadedWorkLog(), ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Body, []byte("%PDF-")))
}

func TestExportServiceRequiresLoadedView(t *testing.T) {
	svc := NewExportService(nil, nil, nil)

	_, err := svc.WorkLog(dto.WorkLogView{}, ExportFormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Dashboard(dto.DashboardView{}, ExportFormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestExportServiceDashboardCSV(t *testing.T) {
	svc := NewExportService(nil, nil, nil)
	view := dto.DashboardView{
		Loaded:     true,
		Region:     models.RegionKentucky,
		RegionName: "Kentucky",
		Status:     models.TabPending,
		Title:      "Pending Requests",
		Pagination: models.Pagination{Page: 1},
		Rows: []dto.DashboardRow{
			{ID: 1, EmployeeName: "Jane Doe", RequestorName: "John Roe", RequestDate: "03/01", ServiceWeek: "03/04 - 03/10", StatusName: "Pending", Hours: "40"},
		},
	}

	result, err := svc.Dashboard(view, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "dashboard-kentucky-pending-page-1.csv", result.Filename)
	assert.Contains(t, string(result.Body), "1,Jane Doe,John Roe,03/01,03/04 - 03/10,Pending,40\n")
}

func TestExportServiceRenderFailure(t *testing.T) {
	svc := NewExportService(nil, failingRenderer{}, nil)

	_, err := svc.WorkLog(loadedWorkLog(), ExportFormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}
