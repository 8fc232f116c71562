package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/workday"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
)

// Valid reports whether s is a known attendance status.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent, StatusLeave:
		return true
	}
	return false
}

type Attendance struct {
	ID        string
	UserID    string
	WorkDate  time.Time
	CheckIn   *time.Time
	CheckOut  *time.Time
	Status    Status
	Location  *string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO / Join
	EmployeeName   string
	DepartmentID   string
	DepartmentName string
}

// Subject returns the owner of the record for scope checks.
func (a Attendance) Subject() scope.Subject {
	return scope.Subject{UserID: a.UserID, DepartmentID: a.DepartmentID}
}

// WorkingDuration is the exact span between check-in and check-out, or nil
// while the record is open.
func (a Attendance) WorkingDuration() *WorkingDuration {
	if a.CheckIn == nil || a.CheckOut == nil {
		return nil
	}
	d := WorkingDuration(a.CheckOut.Sub(*a.CheckIn))
	return &d
}

type WorkingDuration time.Duration

// Minutes returns the exact duration in minutes, fractions included.
func (d WorkingDuration) Minutes() float64 {
	return time.Duration(d).Minutes()
}

// String renders the floored duration as "<H>h <M>m".
func (d WorkingDuration) String() string {
	return workday.FormatMinutes(int(time.Duration(d) / time.Minute))
}
