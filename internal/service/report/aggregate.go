package report

import (
	"sort"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/workday"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ProductivitySource marks the productivity figure as derived from attendance.
const ProductivitySource = "attendance"

// Rate returns count/total as a whole percentage, rounded half away from zero.
// A zero total yields 0.
func Rate(count, total int) int {
	if total == 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(count)).Mul(hundred).Div(decimal.NewFromInt(int64(total)))
	return int(pct.Round(0).IntPart())
}

// Aggregate computes statistics over the records whose work date falls in r.
// The weekly and monthly series use every record given, so callers pass the
// records loaded for the series window (see SeriesWindow).
func Aggregate(records []attendance.Attendance, r report.DateRange, groupBy report.GroupBy) report.StatisticsSnapshot {
	inRange := make([]attendance.Attendance, 0, len(records))
	for _, rec := range records {
		if r.Contains(rec.WorkDate) {
			inRange = append(inRange, rec)
		}
	}

	snapshot := summarize(inRange)
	snapshot.Weekly = WeeklySeries(records, r.End)
	snapshot.Monthly = MonthlySeries(records, r.End)

	if groupBy != report.GroupByNone {
		snapshot.Breakdown = breakdown(inRange, groupBy)
	}

	return snapshot
}

// summarize counts statuses and derives rates for an already filtered set.
func summarize(records []attendance.Attendance) report.StatisticsSnapshot {
	var (
		s           report.StatisticsSnapshot
		closed      int64
		minutesSum  = decimal.Zero
		zeroMinutes = workday.FormatMinutes(0)
	)

	for _, rec := range records {
		s.Total++
		switch rec.Status {
		case attendance.StatusPresent:
			s.Present++
		case attendance.StatusLate:
			s.Late++
		case attendance.StatusAbsent:
			s.Absent++
		case attendance.StatusLeave:
			s.Leave++
		}

		if d := rec.WorkingDuration(); d != nil {
			closed++
			minutesSum = minutesSum.Add(decimal.NewFromFloat(d.Minutes()))
		}
	}

	s.AverageWorkingHours = zeroMinutes
	if closed > 0 {
		avg := minutesSum.Div(decimal.NewFromInt(closed))
		s.AverageWorkingMinutes = avg.Round(2).InexactFloat64()
		s.AverageWorkingHours = workday.FormatMinutes(int(avg.Floor().IntPart()))
	}

	s.PresentRate = Rate(s.Present, s.Total)
	s.LateRate = Rate(s.Late, s.Total)
	s.AbsentRate = Rate(s.Absent, s.Total)
	s.LeaveRate = Rate(s.Leave, s.Total)
	s.AttendanceRate = Rate(s.Present+s.Late, s.Total)

	// No task data exists; the on-time share of attended days stands in, flagged as estimated
	if attended := s.Present + s.Late; attended > 0 {
		s.Productivity = &report.Metric{
			Value:     Rate(s.Present, attended),
			Estimated: true,
			Source:    ProductivitySource,
		}
	}

	return s
}

func breakdown(records []attendance.Attendance, groupBy report.GroupBy) []report.StatisticsSnapshot {
	type group struct {
		label   string
		records []attendance.Attendance
	}
	groups := make(map[string]*group)
	var keys []string

	for _, rec := range records {
		key, label := rec.UserID, rec.EmployeeName
		if groupBy == report.GroupByDepartment {
			key, label = rec.DepartmentID, rec.DepartmentName
		}
		g, ok := groups[key]
		if !ok {
			g = &group{label: label}
			groups[key] = g
			keys = append(keys, key)
		}
		g.records = append(g.records, rec)
	}

	sort.Slice(keys, func(i, j int) bool {
		li, lj := groups[keys[i]].label, groups[keys[j]].label
		if li != lj {
			return li < lj
		}
		return keys[i] < keys[j]
	})

	out := make([]report.StatisticsSnapshot, 0, len(keys))
	for _, key := range keys {
		s := summarize(groups[key].records)
		s.Key = key
		s.Label = groups[key].label
		out = append(out, s)
	}
	return out
}

// WeekStart returns the Monday of the week containing day.
func WeekStart(day time.Time) time.Time {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// MonthStart returns the first day of the month containing day.
func MonthStart(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// SeriesWindow is the span of days needed for a range's statistics and both series.
func SeriesWindow(r report.DateRange) report.DateRange {
	start := r.Start
	if ws := WeekStart(r.End); ws.Before(start) {
		start = ws
	}
	if ms := MonthStart(r.End); ms.Before(start) {
		start = ms
	}

	end := r.End
	if we := WeekStart(r.End).AddDate(0, 0, 6); we.After(end) {
		end = we
	}
	if me := MonthStart(r.End).AddDate(0, 1, -1); me.After(end) {
		end = me
	}
	return report.DateRange{Start: start, End: end}
}

// WeeklySeries returns seven points, Monday first, for the week containing anchor.
func WeeklySeries(records []attendance.Attendance, anchor time.Time) []report.SeriesPoint {
	start := WeekStart(anchor)
	return series(records, start, 7, func(day time.Time) string {
		return day.Weekday().String()[:3]
	})
}

// MonthlySeries returns one point per day of the month containing anchor.
func MonthlySeries(records []attendance.Attendance, anchor time.Time) []report.SeriesPoint {
	start := MonthStart(anchor)
	days := start.AddDate(0, 1, -1).Day()
	return series(records, start, days, func(day time.Time) string {
		return strconv.Itoa(day.Day())
	})
}

func series(records []attendance.Attendance, start time.Time, days int, label func(time.Time) string) []report.SeriesPoint {
	type bucket struct{ total, attended int }
	buckets := make(map[string]*bucket, days)
	for _, rec := range records {
		key := rec.WorkDate.Format(workday.DateLayout)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.total++
		if rec.Status == attendance.StatusPresent || rec.Status == attendance.StatusLate {
			b.attended++
		}
	}

	points := make([]report.SeriesPoint, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		key := day.Format(workday.DateLayout)
		p := report.SeriesPoint{Date: key, Label: label(day)}
		if b, ok := buckets[key]; ok {
			p.Total = b.total
			p.Rate = Rate(b.attended, b.total)
		}
		points = append(points, p)
	}
	return points
}

// CountLeaveDays sums approved leave days clipped to r.
func CountLeaveDays(requests []leave.LeaveRequest, r report.DateRange) int {
	days := 0
	for _, req := range requests {
		if req.Status != leave.LeaveRequestStatusApproved || !req.Overlaps(r.Start, r.End) {
			continue
		}
		start, end := req.StartDate, req.EndDate
		if start.Before(r.Start) {
			start = r.Start
		}
		if end.After(r.End) {
			end = r.End
		}
		days += workday.DaysInclusive(start, end)
	}
	return days
}
