package attendance

import (
	"errors"
	"fmt"
	"time"
)

// Attendance domain errors
var (
	// Check-in / check-out errors
	ErrDuplicateCheckIn  = errors.New("attendance already recorded for this day")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")
	ErrInvalidOrder      = errors.New("check-out must be after check-in")

	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// DuplicateCheckInError carries the record that already occupies the day.
type DuplicateCheckInError struct {
	Existing Attendance
	// At is the existing check-in in the workday location.
	At *time.Time
}

func (e *DuplicateCheckInError) Error() string {
	if e.At == nil {
		return fmt.Sprintf("attendance for today is already recorded as %s", e.Existing.Status)
	}
	return fmt.Sprintf("you already checked in today at %s", e.At.Format("15:04"))
}

func (e *DuplicateCheckInError) Unwrap() error {
	return ErrDuplicateCheckIn
}
