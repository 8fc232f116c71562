package report

import (
	"bytes"
	"encoding/csv"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
)

func (rd *Renderer) renderCSV(snapshot report.StatisticsSnapshot, rows []attendance.Attendance, r report.DateRange) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{reportTitle},
		{"Period", rd.Period(r)},
		{},
	}
	for _, f := range rd.StatisticsFields(snapshot) {
		records = append(records, []string{f.Label, f.Value})
	}
	for _, note := range rd.Notes(snapshot) {
		records = append(records, []string{note})
	}

	records = append(records, []string{}, TableHeader)
	for _, row := range rows {
		records = append(records, rd.Row(row))
	}

	if len(snapshot.Breakdown) > 0 {
		records = append(records, []string{}, BreakdownHeader)
		for _, group := range snapshot.Breakdown {
			records = append(records, rd.BreakdownRow(group))
		}
	}

	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
