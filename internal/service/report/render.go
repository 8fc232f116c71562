package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/workday"
)

const (
	reportName  = "attendance-report"
	reportTitle = "Attendance Report"
	missing     = "-"
)

// TableHeader lists the record table columns shared by every format.
var TableHeader = []string{
	"Date", "Employee Name", "Employee ID", "Department",
	"Check In", "Check Out", "Duration", "Status", "Location",
}

// BreakdownHeader lists the per-group table columns.
var BreakdownHeader = []string{
	"Group", "Total", "Present", "Late", "Absent", "Leave", "Average Hours", "Attendance Rate",
}

// Field is a labelled figure of the statistics block.
type Field struct {
	Label string
	Value string
}

// StatusLabel is the display text of a status.
func StatusLabel(s attendance.Status) string {
	switch s {
	case attendance.StatusPresent:
		return "Present"
	case attendance.StatusLate:
		return "Late"
	case attendance.StatusAbsent:
		return "Absent"
	case attendance.StatusLeave:
		return "On Leave"
	}
	return string(s)
}

// Filename builds "<report-name>-<start>-<end>.<ext>".
func Filename(format report.Format, r report.DateRange) string {
	return fmt.Sprintf("%s-%s-%s.%s",
		reportName,
		r.Start.Format(workday.DateLayout),
		r.End.Format(workday.DateLayout),
		format.Extension(),
	)
}

// Renderer turns a snapshot and its rows into a file. All cell text comes
// from the methods below so every format shows the same strings.
type Renderer struct {
	loc *time.Location
}

func NewRenderer(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{loc: loc}
}

// Render encodes the report in the requested format.
func (rd *Renderer) Render(snapshot report.StatisticsSnapshot, rows []attendance.Attendance, format report.Format, r report.DateRange) (report.Blob, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case report.FormatDocument:
		data, err = rd.renderPDF(snapshot, rows, r)
	case report.FormatSpreadsheet:
		data, err = rd.renderXLSX(snapshot, rows, r)
	case report.FormatDelimitedText:
		data, err = rd.renderCSV(snapshot, rows, r)
	default:
		return report.Blob{}, report.ErrUnsupportedFormat
	}
	if err != nil {
		return report.Blob{}, fmt.Errorf("%w: %s: %v", report.ErrReportGenerationFailed, format, err)
	}

	return report.Blob{
		Filename:    Filename(format, r),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// Period is the human readable range line of the header block.
func (rd *Renderer) Period(r report.DateRange) string {
	return r.String()
}

// StatisticsFields returns the six figures of the statistics block.
func (rd *Renderer) StatisticsFields(s report.StatisticsSnapshot) []Field {
	return []Field{
		{Label: "Total", Value: strconv.Itoa(s.Total)},
		{Label: "Present", Value: strconv.Itoa(s.Present)},
		{Label: "Late", Value: strconv.Itoa(s.Late)},
		{Label: "Absent", Value: strconv.Itoa(s.Absent)},
		{Label: "Leave", Value: strconv.Itoa(s.Leave)},
		{Label: "Average Hours", Value: s.AverageWorkingHours},
	}
}

// Row returns the table cells of one record.
func (rd *Renderer) Row(a attendance.Attendance) []string {
	checkIn, checkOut, duration := missing, missing, missing
	if a.CheckIn != nil {
		checkIn = a.CheckIn.In(rd.loc).Format("15:04")
	}
	if a.CheckOut != nil {
		checkOut = a.CheckOut.In(rd.loc).Format("15:04")
	}
	if d := a.WorkingDuration(); d != nil {
		duration = d.String()
	}

	location := missing
	if a.Location != nil && *a.Location != "" {
		location = *a.Location
	}
	department := a.DepartmentName
	if department == "" {
		department = missing
	}

	return []string{
		a.WorkDate.Format(workday.DateLayout),
		a.EmployeeName,
		a.UserID,
		department,
		checkIn,
		checkOut,
		duration,
		StatusLabel(a.Status),
		location,
	}
}

// BreakdownRow returns the cells of one group of the breakdown table.
func (rd *Renderer) BreakdownRow(s report.StatisticsSnapshot) []string {
	label := s.Label
	if label == "" {
		label = s.Key
	}
	return []string{
		label,
		strconv.Itoa(s.Total),
		strconv.Itoa(s.Present),
		strconv.Itoa(s.Late),
		strconv.Itoa(s.Absent),
		strconv.Itoa(s.Leave),
		s.AverageWorkingHours,
		strconv.Itoa(s.AttendanceRate) + "%",
	}
}

// Notes returns extra lines shown under the statistics block.
func (rd *Renderer) Notes(s report.StatisticsSnapshot) []string {
	var notes []string
	if s.Degraded {
		notes = append(notes, "Data unavailable: figures are zeroed")
	}
	if s.Productivity != nil && s.Productivity.Estimated {
		notes = append(notes, fmt.Sprintf("Estimated productivity (from %s): %d%%", s.Productivity.Source, s.Productivity.Value))
	}
	return notes
}
