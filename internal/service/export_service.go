package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hkwon327/timesheet-dashboard/internal/dto"
	appErrors "github.com/hkwon327/timesheet-dashboard/pkg/errors"
	"github.com/hkwon327/timesheet-dashboard/pkg/export"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ParseExportFormat accepts csv or pdf in any case; empty means pdf.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(ExportFormatPDF):
		return ExportFormatPDF, nil
	case string(ExportFormatCSV):
		return ExportFormatCSV, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", raw))
}

// ExportResult is a rendered file ready to be served.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ExportService renders work logs and dashboard tabs as downloadable files.
type ExportService struct {
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the pkg/export ones.
func NewExportService(logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{csv: csv, pdf: pdf, logger: logger}
}

// WorkLog renders the loaded work log with its schedule rows and total.
func (s *ExportService) WorkLog(view dto.WorkLogView, format ExportFormat) (*ExportResult, error) {
	if !view.Loaded {
		return nil, appErrors.Clone(appErrors.ErrValidation, "work log is not loaded")
	}
	dataset := export.Dataset{
		Title: "Work Hours",
		Lines: []string{
			"Employee: " + view.EmployeeName,
			"Requestor: " + view.RequestorName,
			fmt.Sprintf("Service week: %s - %s", view.ServiceWeekStart, view.ServiceWeekEnd),
			"Status: " + view.StatusName,
		},
		Headers: []string{"Date", "Time", "Location", "Shift", "Hours"},
		Footer:  []string{"Total", "", "", "", view.TotalHoursText},
	}
	for _, row := range view.Rows {
		hours := ""
		if row.Parsed {
			hours = strconv.FormatFloat(row.Hours, 'f', -1, 64)
		}
		dataset.Rows = append(dataset.Rows, []string{row.Label, row.Time, row.Location, row.Shift, hours})
	}
	base := fmt.Sprintf("worklog-%d-%s", view.ID, view.EmployeeName)
	return s.render(dataset, base, format)
}

// Dashboard renders the rows of the current dashboard page.
func (s *ExportService) Dashboard(view dto.DashboardView, format ExportFormat) (*ExportResult, error) {
	if !view.Loaded {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dashboard is not loaded")
	}
	dataset := export.Dataset{
		Title:   view.Title,
		Lines:   []string{"Region: " + view.RegionName},
		Headers: []string{"ID", "Employee", "Requestor", "Request Date", "Service Week", "Status", "Hours"},
	}
	for _, row := range view.Rows {
		dataset.Rows = append(dataset.Rows, []string{
			strconv.FormatInt(row.ID, 10),
			row.EmployeeName,
			row.RequestorName,
			row.RequestDate,
			row.ServiceWeek,
			row.StatusName,
			row.Hours,
		})
	}
	base := fmt.Sprintf("dashboard-%s-%s-page-%d", view.Region, view.Status, view.Pagination.Page)
	return s.render(dataset, base, format)
}

func (s *ExportService) render(dataset export.Dataset, base string, format ExportFormat) (*ExportResult, error) {
	var (
		body        []byte
		err         error
		contentType string
	)
	switch format {
	case ExportFormatCSV:
		body, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case ExportFormatPDF:
		body, err = s.pdf.Render(dataset)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		s.logger.Error("render export", zap.String("file", base), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	filename := strings.Trim(unsafeFilename.ReplaceAllString(base, "_"), "_") + "." + string(format)
	return &ExportResult{Filename: filename, ContentType: contentType, Body: body}, nil
}
