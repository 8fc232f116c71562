package attendance

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens the user's record for the current calendar day
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes an open record owned by the user
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// RecordAbsence marks a day as absent or leave for a user in the actor's scope
	RecordAbsence(ctx context.Context, actor scope.Actor, req RecordAbsenceRequest) (AttendanceResponse, error)

	// GetAttendance retrieves a single record visible to the actor
	GetAttendance(ctx context.Context, actor scope.Actor, id string) (AttendanceResponse, error)

	// ListAttendance retrieves records visible to the actor
	ListAttendance(ctx context.Context, actor scope.Actor, filter AttendanceFilter) (ListAttendanceResponse, error)
}
