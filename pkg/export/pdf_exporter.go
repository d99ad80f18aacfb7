package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const pageWidth = 190.0

// PDFExporter renders a Dataset as a single-table A4 document.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render lays out the title, the heading lines, then the table with a bold footer row.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if data.width() == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(data.Title), "", 1, "C", false, 0, "")
	}
	if len(data.Lines) > 0 {
		pdf.SetFont("Arial", "", 10)
		for _, line := range data.Lines {
			pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	colWidth := pageWidth / float64(data.width())
	writeRow := func(row []string, border string) {
		for _, value := range data.pad(row) {
			pdf.CellFormat(colWidth, 7, tr(value), border, 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 10)
	writeRow(data.Headers, "1")
	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		writeRow(row, "1")
	}
	if len(data.Footer) > 0 {
		pdf.SetFont("Arial", "B", 9)
		writeRow(data.Footer, "1")
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
