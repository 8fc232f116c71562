package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/query"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// ListAttendance implements report.ReportRepository.
func (r *reportRepositoryImpl) ListAttendance(ctx context.Context, start, end time.Time, sc scope.Filter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	where := query.NewWhere(query.Dollar).
		Add("a.work_date BETWEEN %s AND %s", start, end).
		Scope(sc, "a.user_id", "u.department_id")

	rows, err := q.Query(ctx,
		attendanceSelect+" WHERE "+where.SQL()+" ORDER BY a.work_date, u.full_name, a.id",
		where.Args()...,
	)
	if err != nil {
		return nil, fmt.Errorf("report attendances: %w", err)
	}
	return collectAttendances(rows)
}

// ListApprovedLeave implements report.ReportRepository.
func (r *reportRepositoryImpl) ListApprovedLeave(ctx context.Context, start, end time.Time, sc scope.Filter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	where := query.NewWhere(query.Dollar).
		Add("lr.status = %s", string(leave.LeaveRequestStatusApproved)).
		Add("lr.start_date <= %s AND lr.end_date >= %s", end, start).
		Scope(sc, "lr.user_id", "u.department_id")

	rows, err := q.Query(ctx,
		leaveRequestSelect+" WHERE "+where.SQL()+" ORDER BY lr.start_date, lr.id",
		where.Args()...,
	)
	if err != nil {
		return nil, fmt.Errorf("report approved leave: %w", err)
	}
	return collectLeaveRequests(rows)
}
