package report

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary   = "Summary"
	sheetRecords   = "Records"
	sheetBreakdown = "Breakdown"
)

func toRow(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}

func setRow(f *excelize.File, sheet string, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := toRow(cells)
	return f.SetSheetRow(sheet, cell, &values)
}

func (rd *Renderer) renderXLSX(snapshot report.StatisticsSnapshot, rows []attendance.Attendance, r report.DateRange) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, err
	}

	// Summary sheet
	if err := f.SetCellValue(sheetSummary, "A1", reportTitle); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetSummary, "A1", "A1", title); err != nil {
		return nil, err
	}
	if err := setRow(f, sheetSummary, 2, []string{"Period", rd.Period(r)}); err != nil {
		return nil, err
	}
	line := 4
	for _, field := range rd.StatisticsFields(snapshot) {
		if err := setRow(f, sheetSummary, line, []string{field.Label, field.Value}); err != nil {
			return nil, err
		}
		line++
	}
	for _, note := range rd.Notes(snapshot) {
		if err := setRow(f, sheetSummary, line, []string{note}); err != nil {
			return nil, err
		}
		line++
	}
	if err := f.SetCellStyle(sheetSummary, "A4", "A9", bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetSummary, "A", "B", 24); err != nil {
		return nil, err
	}

	// Records sheet
	if _, err := f.NewSheet(sheetRecords); err != nil {
		return nil, err
	}
	if err := setRow(f, sheetRecords, 1, TableHeader); err != nil {
		return nil, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(TableHeader))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetRecords, "A1", lastCol+"1", bold); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := setRow(f, sheetRecords, i+2, rd.Row(row)); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheetRecords, "A", lastCol, 18); err != nil {
		return nil, err
	}

	// Breakdown sheet
	if len(snapshot.Breakdown) > 0 {
		if _, err := f.NewSheet(sheetBreakdown); err != nil {
			return nil, err
		}
		if err := setRow(f, sheetBreakdown, 1, BreakdownHeader); err != nil {
			return nil, err
		}
		for i, group := range snapshot.Breakdown {
			if err := setRow(f, sheetBreakdown, i+2, rd.BreakdownRow(group)); err != nil {
				return nil, err
			}
		}
		if err := f.SetColWidth(sheetBreakdown, "A", "H", 18); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
