package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/workday"
)

type LeaveType string

const (
	LeaveTypeAnnual LeaveType = "annual"
	LeaveTypeSick   LeaveType = "sick"
	LeaveTypeUrgent LeaveType = "urgent"
	LeaveTypeOther  LeaveType = "other"
)

func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypeAnnual, LeaveTypeSick, LeaveTypeUrgent, LeaveTypeOther:
		return true
	}
	return false
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

func (s LeaveRequestStatus) Valid() bool {
	switch s {
	case LeaveRequestStatusPending, LeaveRequestStatusApproved, LeaveRequestStatusRejected:
		return true
	}
	return false
}

// Decision is the outcome a decider applies to a pending request.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Status maps a decision onto the terminal status it produces.
func (d Decision) Status() (LeaveRequestStatus, bool) {
	switch d {
	case DecisionApprove:
		return LeaveRequestStatusApproved, true
	case DecisionReject:
		return LeaveRequestStatusRejected, true
	}
	return "", false
}

// LeaveRequest entity
type LeaveRequest struct {
	ID        string
	UserID    string
	LeaveType LeaveType

	StartDate time.Time
	EndDate   time.Time

	Reason string

	Status          LeaveRequestStatus // 'pending', 'approved', 'rejected'
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	EmployeeName   string
	DepartmentID   string
	DepartmentName string
}

// DurationDays counts the inclusive calendar days of the request.
func (r LeaveRequest) DurationDays() int {
	return workday.DaysInclusive(r.StartDate, r.EndDate)
}

// Overlaps reports whether [start, end] intersects the request, both ends inclusive.
func (r LeaveRequest) Overlaps(start, end time.Time) bool {
	return !start.After(r.EndDate) && !end.Before(r.StartDate)
}

// Subject returns the owner of the request for scope checks.
func (r LeaveRequest) Subject() scope.Subject {
	return scope.Subject{UserID: r.UserID, DepartmentID: r.DepartmentID}
}
