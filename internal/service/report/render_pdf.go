package report

import (
	"bytes"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/jung-kurt/gofpdf"
)

// Column widths in mm for an A4 landscape page (277mm printable).
var pdfColumnWidths = []float64{24, 45, 38, 36, 20, 20, 24, 24, 46}

func (rd *Renderer) renderPDF(snapshot report.StatisticsSnapshot, rows []attendance.Attendance, r report.DateRange) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetTitle(reportTitle, false)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(reportTitle), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, tr(rd.Period(r)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Statistics
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Summary", "", 1, "L", false, 0, "")
	for _, f := range rd.StatisticsFields(snapshot) {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(40, 6, tr(f.Label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, tr(f.Value), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "I", 9)
	for _, note := range rd.Notes(snapshot) {
		pdf.CellFormat(0, 6, tr(note), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Records
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range TableHeader {
		pdf.CellFormat(pdfColumnWidths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range rows {
		for i, cell := range rd.Row(row) {
			pdf.CellFormat(pdfColumnWidths[i], 6, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(snapshot.Breakdown) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 7, "Breakdown", "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 9)
		for _, h := range BreakdownHeader {
			pdf.CellFormat(34, 7, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 8)
		for _, group := range snapshot.Breakdown {
			for _, cell := range rd.BreakdownRow(group) {
				pdf.CellFormat(34, 6, tr(cell), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
