package leave

import (
	"errors"
	"fmt"
)

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrOverlappingLeave     = errors.New("leave request overlaps an existing request")
	ErrLeaveAlreadyDecided  = errors.New("leave request has already been decided")
	ErrForbiddenDepartment  = errors.New("leave request belongs to another department")
	ErrSelfDecision         = errors.New("you cannot decide your own leave request")
	ErrDecisionNotAllowed   = errors.New("your role cannot decide leave requests")
	ErrInvalidDecision      = errors.New("decision must be approve or reject")
)

// OverlappingLeaveError carries the request the new one collides with.
type OverlappingLeaveError struct {
	Existing LeaveRequest
}

func (e *OverlappingLeaveError) Error() string {
	return fmt.Sprintf("leave request overlaps your %s request from %s to %s",
		e.Existing.Status,
		e.Existing.StartDate.Format("2006-01-02"),
		e.Existing.EndDate.Format("2006-01-02"),
	)
}

func (e *OverlappingLeaveError) Unwrap() error {
	return ErrOverlappingLeave
}

// ForbiddenDepartmentError is returned when a manager decides a request
// owned by another department.
type ForbiddenDepartmentError struct {
	ManagerDepartmentID string
	OwnerDepartmentID   string
}

func (e *ForbiddenDepartmentError) Error() string {
	return fmt.Sprintf("manager of department %s cannot decide a request from department %s",
		e.ManagerDepartmentID, e.OwnerDepartmentID)
}

func (e *ForbiddenDepartmentError) Unwrap() error {
	return ErrForbiddenDepartment
}
