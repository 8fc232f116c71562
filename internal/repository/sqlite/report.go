package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/query"
)

type reportRepositoryImpl struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// ListAttendance implements report.ReportRepository.
func (r *reportRepositoryImpl) ListAttendance(ctx context.Context, start, end time.Time, sc scope.Filter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	where := query.NewWhere(query.Question).
		Add("a.work_date BETWEEN %s AND %s", formatDate(start), formatDate(end)).
		Scope(sc, "a.user_id", "u.department_id")

	rows, err := q.QueryContext(ctx,
		attendanceSelect+" WHERE "+where.SQL()+" ORDER BY a.work_date, u.full_name, a.id",
		where.Args()...,
	)
	if err != nil {
		return nil, fmt.Errorf("report attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ListApprovedLeave implements report.ReportRepository.
func (r *reportRepositoryImpl) ListApprovedLeave(ctx context.Context, start, end time.Time, sc scope.Filter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	where := query.NewWhere(query.Question).
		Add("lr.status = %s", string(leave.LeaveRequestStatusApproved)).
		Add("lr.start_date <= %s AND lr.end_date >= %s", formatDate(end), formatDate(start)).
		Scope(sc, "lr.user_id", "u.department_id")

	rows, err := q.QueryContext(ctx,
		leaveRequestSelect+" WHERE "+where.SQL()+" ORDER BY lr.start_date, lr.id",
		where.Args()...,
	)
	if err != nil {
		return nil, fmt.Errorf("report approved leave: %w", err)
	}
	return collectLeaveRequests(rows)
}
