package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// conflicts maps each conflict sentinel onto its error code
var conflicts = []struct {
	err  error
	code string
}{
	{attendance.ErrDuplicateCheckIn, "DUPLICATE_CHECK_IN"},
	{attendance.ErrAlreadyCheckedOut, "ALREADY_CHECKED_OUT"},
	{attendance.ErrNotCheckedIn, "NOT_CHECKED_IN"},
	{attendance.ErrInvalidOrder, "INVALID_ORDER"},
	{leave.ErrOverlappingLeave, "OVERLAPPING_LEAVE"},
	{leave.ErrLeaveAlreadyDecided, "LEAVE_ALREADY_DECIDED"},
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	for _, c := range conflicts {
		if errors.Is(err, c.err) {
			ConflictWithCode(w, c.code, err.Error(), nil)
			return
		}
	}

	switch {
	// Authorization
	case errors.Is(err, leave.ErrForbiddenDepartment),
		errors.Is(err, leave.ErrSelfDecision),
		errors.Is(err, leave.ErrDecisionNotAllowed),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())
	case errors.Is(err, jwt.ErrInvalidClaims):
		Unauthorized(w, err.Error())
	case errors.Is(err, scope.ErrUnknownRole):
		Forbidden(w, "Unknown role")

	// Not found
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Report errors
	case errors.Is(err, report.ErrInvalidDateRange),
		errors.Is(err, report.ErrUnsupportedFormat),
		errors.Is(err, report.ErrInvalidGroupBy):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, report.ErrReportGenerationFailed):
		slog.Error("report generation failed", "error", err)
		InternalServerError(w, "Failed to generate report")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
