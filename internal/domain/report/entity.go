package report

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/workday"
)

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses two YYYY-MM-DD strings. Start after end is an error.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(workday.DateLayout, start)
	if err != nil {
		return DateRange{}, ErrInvalidDateRange
	}
	e, err := time.Parse(workday.DateLayout, end)
	if err != nil {
		return DateRange{}, ErrInvalidDateRange
	}
	if s.After(e) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{Start: s, End: e}, nil
}

// Contains reports whether day falls within the range. Time of day is ignored.
func (r DateRange) Contains(day time.Time) bool {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the number of calendar days in the range.
func (r DateRange) Days() int {
	return workday.DaysInclusive(r.Start, r.End)
}

// String renders "YYYY-MM-DD to YYYY-MM-DD".
func (r DateRange) String() string {
	return r.Start.Format(workday.DateLayout) + " to " + r.End.Format(workday.DateLayout)
}

type Format string

const (
	FormatDocument      Format = "document"
	FormatSpreadsheet   Format = "spreadsheet"
	FormatDelimitedText Format = "delimited-text"
)

func (f Format) Valid() bool {
	switch f {
	case FormatDocument, FormatSpreadsheet, FormatDelimitedText:
		return true
	}
	return false
}

func (f Format) Extension() string {
	switch f {
	case FormatDocument:
		return "pdf"
	case FormatSpreadsheet:
		return "xlsx"
	case FormatDelimitedText:
		return "csv"
	}
	return ""
}

func (f Format) ContentType() string {
	switch f {
	case FormatDocument:
		return "application/pdf"
	case FormatSpreadsheet:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatDelimitedText:
		return "text/csv"
	}
	return "application/octet-stream"
}

type GroupBy string

const (
	GroupByNone       GroupBy = ""
	GroupByUser       GroupBy = "user"
	GroupByDepartment GroupBy = "department"
)

func (g GroupBy) Valid() bool {
	switch g {
	case GroupByNone, GroupByUser, GroupByDepartment:
		return true
	}
	return false
}

// Metric is a derived figure together with how it was obtained.
type Metric struct {
	Value     int    `json:"value"`
	Estimated bool   `json:"estimated"`
	Source    string `json:"source"`
}

// SeriesPoint is one calendar day of a weekly or monthly series.
type SeriesPoint struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Total int    `json:"total"`
	Rate  int    `json:"rate"`
}

type StatisticsSnapshot struct {
	Key   string `json:"key,omitempty"`
	Label string `json:"label,omitempty"`

	Total   int `json:"total"`
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
	Leave   int `json:"leave"`

	AverageWorkingMinutes float64 `json:"average_working_minutes"`
	AverageWorkingHours   string  `json:"average_working_hours"`

	PresentRate    int `json:"present_rate"`
	LateRate       int `json:"late_rate"`
	AbsentRate     int `json:"absent_rate"`
	LeaveRate      int `json:"leave_rate"`
	AttendanceRate int `json:"attendance_rate"`

	ApprovedLeaveDays int `json:"approved_leave_days"`

	Productivity *Metric `json:"productivity,omitempty"`

	Weekly    []SeriesPoint        `json:"weekly,omitempty"`
	Monthly   []SeriesPoint        `json:"monthly,omitempty"`
	Breakdown []StatisticsSnapshot `json:"breakdown,omitempty"`

	// Degraded is set when the ledgers could not be read and the figures are zeroed.
	Degraded bool `json:"degraded"`
}

// Blob is a rendered report file.
type Blob struct {
	Filename    string
	ContentType string
	Data        []byte
	// URL is set when the blob was also archived.
	URL string
}
