package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/workday"
	reportsvc "github.com/cmlabs-hris/hris-attendance-go/internal/service/report"
	"golang.org/x/sync/errgroup"
)

const recentLimit = 10

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	reportRepo   report.ReportRepository
	leaveService leave.LeaveService
	policy       workday.Policy
	now          func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository, reportRepo report.ReportRepository, leaveService leave.LeaveService, policy workday.Policy) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		reportRepo:          reportRepo,
		leaveService:        leaveService,
		policy:              policy,
		now:                 time.Now,
	}
}

// parseMonth parses YYYY-MM format, defaults to the current month
func parseMonth(month string, today time.Time) (time.Time, error) {
	if month == "" {
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}

	parsed, ok := validator.IsValidMonth(month)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		}}
	}
	return parsed, nil
}

// GetDashboard returns combined dashboard data using parallel goroutines
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, actor scope.Actor, month string) (*dashboard.DashboardResponse, error) {
	sc, err := scope.For(actor)
	if err != nil {
		return nil, err
	}

	today := s.policy.CalendarDay(s.now())
	monthStart, err := parseMonth(month, today)
	if err != nil {
		return nil, err
	}

	// The current month runs up to today; past and future months are whole
	period := report.DateRange{Start: monthStart, End: monthStart.AddDate(0, 1, -1)}
	if period.Contains(today) {
		period.End = today
	}
	window := reportsvc.SeriesWindow(period)

	var (
		records   []attendance.Attendance
		approved  []leave.LeaveRequest
		pending   int64
		remaining int
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Attendance for the month and series window
	g.Go(func() error {
		rows, err := s.reportRepo.ListAttendance(gCtx, window.Start, window.End, sc)
		if err != nil {
			return fmt.Errorf("failed to load attendance: %w", err)
		}
		records = rows
		return nil
	})

	// 2. Approved leave in the month
	g.Go(func() error {
		rows, err := s.reportRepo.ListApprovedLeave(gCtx, period.Start, period.End, sc)
		if err != nil {
			return fmt.Errorf("failed to load approved leave: %w", err)
		}
		approved = rows
		return nil
	})

	// 3. Pending leave awaiting the actor
	g.Go(func() error {
		count, err := s.CountPendingLeave(gCtx, sc)
		if err != nil {
			return fmt.Errorf("failed to count pending leave: %w", err)
		}
		pending = count
		return nil
	})

	// 4. Actor's own annual allowance
	g.Go(func() error {
		left, err := s.leaveService.RemainingAllowance(gCtx, actor.UserID, monthStart.Year())
		if err != nil {
			return fmt.Errorf("failed to compute allowance: %w", err)
		}
		remaining = left
		return nil
	})

	resp := &dashboard.DashboardResponse{
		Role:  string(actor.Role),
		Month: monthStart.Format("2006-01"),
	}

	if err := g.Wait(); err != nil {
		slog.Error("dashboard degraded: ledger read failed", "user_id", actor.UserID, "month", resp.Month, "error", err)
		resp.MonthlyStatistics = reportsvc.Aggregate(nil, period, report.GroupByNone)
		resp.MonthlyStatistics.Degraded = true
		resp.TodayStats = todayStats(nil, today)
		resp.RecentAttendance = []dashboard.AttendanceRecordItem{}
		resp.Degraded = true
		return resp, nil
	}

	resp.MonthlyStatistics = reportsvc.Aggregate(records, period, report.GroupByNone)
	resp.MonthlyStatistics.ApprovedLeaveDays = reportsvc.CountLeaveDays(approved, period)
	resp.TodayStats = todayStats(records, today)
	resp.RecentAttendance = s.recent(records, period)
	resp.PendingLeave = pending
	resp.LeaveAllowance = &dashboard.LeaveAllowanceResponse{
		Year:      monthStart.Year(),
		Quota:     s.policy.AnnualLeaveQuota,
		Remaining: remaining,
	}

	return resp, nil
}

func todayStats(records []attendance.Attendance, today time.Time) dashboard.AttendanceStatsResponse {
	stats := dashboard.AttendanceStatsResponse{Date: today.Format(workday.DateLayout)}
	for _, rec := range records {
		if !rec.WorkDate.Equal(today) {
			continue
		}
		stats.Total++
		switch rec.Status {
		case attendance.StatusPresent:
			stats.OnTime++
		case attendance.StatusLate:
			stats.Late++
		case attendance.StatusAbsent:
			stats.Absent++
		case attendance.StatusLeave:
			stats.Leave++
		}
	}
	stats.OnTimePercent = reportsvc.Rate(stats.OnTime, stats.Total)
	stats.LatePercent = reportsvc.Rate(stats.Late, stats.Total)
	stats.AbsentPercent = reportsvc.Rate(stats.Absent, stats.Total)
	return stats
}

// recent returns the latest records of the period, newest first.
func (s *DashboardServiceImpl) recent(records []attendance.Attendance, period report.DateRange) []dashboard.AttendanceRecordItem {
	inPeriod := make([]attendance.Attendance, 0, len(records))
	for _, rec := range records {
		if period.Contains(rec.WorkDate) {
			inPeriod = append(inPeriod, rec)
		}
	}
	sort.SliceStable(inPeriod, func(i, j int) bool {
		if !inPeriod[i].WorkDate.Equal(inPeriod[j].WorkDate) {
			return inPeriod[i].WorkDate.After(inPeriod[j].WorkDate)
		}
		return inPeriod[i].CreatedAt.After(inPeriod[j].CreatedAt)
	})

	items := make([]dashboard.AttendanceRecordItem, 0, recentLimit)
	for i, rec := range inPeriod {
		if i == recentLimit {
			break
		}
		item := dashboard.AttendanceRecordItem{
			No:           i + 1,
			EmployeeName: rec.EmployeeName,
			Date:         rec.WorkDate.Format(workday.DateLayout),
			Status:       string(rec.Status),
		}
		if rec.CheckIn != nil {
			checkIn := s.policy.In(*rec.CheckIn).Format("15:04")
			item.CheckIn = &checkIn
		}
		items = append(items, item)
	}
	return items
}
