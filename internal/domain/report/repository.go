package report

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
)

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// ListAttendance returns records whose work date falls in [start, end],
	// joined with the owner's name and department.
	ListAttendance(ctx context.Context, start, end time.Time, sc scope.Filter) ([]attendance.Attendance, error)

	// ListApprovedLeave returns approved requests intersecting [start, end].
	ListApprovedLeave(ctx context.Context, start, end time.Time, sc scope.Filter) ([]leave.LeaveRequest, error)
}
