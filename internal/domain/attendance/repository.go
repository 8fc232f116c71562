package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts a record. A second record for the same user and day
	// fails with an error wrapping ErrDuplicateCheckIn.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves a record joined with its owner's name and department
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndDate returns nil when the user has no record for the day
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// SetCheckOut closes an open record. Fails with ErrAlreadyCheckedOut
	// when the record already has a check-out.
	SetCheckOut(ctx context.Context, id string, checkOut time.Time) error

	// List retrieves records visible through sc with filters and pagination
	List(ctx context.Context, filter AttendanceFilter, sc scope.Filter) ([]Attendance, int64, error)
}
