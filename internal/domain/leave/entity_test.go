package leave

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestLeaveRequest_Overlaps(t *testing.T) {
	r := LeaveRequest{StartDate: day("2024-04-01"), EndDate: day("2024-04-03")}

	assert.True(t, r.Overlaps(day("2024-04-03"), day("2024-04-05")), "shared end day overlaps")
	assert.True(t, r.Overlaps(day("2024-03-30"), day("2024-04-01")), "shared start day overlaps")
	assert.True(t, r.Overlaps(day("2024-04-02"), day("2024-04-02")))
	assert.False(t, r.Overlaps(day("2024-04-04"), day("2024-04-05")))
	assert.False(t, r.Overlaps(day("2024-03-25"), day("2024-03-31")))
}

func TestLeaveRequest_DurationDays(t *testing.T) {
	r := LeaveRequest{StartDate: day("2024-04-01"), EndDate: day("2024-04-03")}
	assert.Equal(t, 3, r.DurationDays())
}

func TestDecision_Status(t *testing.T) {
	s, ok := DecisionApprove.Status()
	assert.True(t, ok)
	assert.Equal(t, LeaveRequestStatusApproved, s)

	s, ok = DecisionReject.Status()
	assert.True(t, ok)
	assert.Equal(t, LeaveRequestStatusRejected, s)

	_, ok = Decision("cancel").Status()
	assert.False(t, ok)
}

func TestForbiddenDepartmentError(t *testing.T) {
	err := fmt.Errorf("decide: %w", &ForbiddenDepartmentError{ManagerDepartmentID: "5", OwnerDepartmentID: "7"})

	assert.True(t, errors.Is(err, ErrForbiddenDepartment))
	var fe *ForbiddenDepartmentError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Error(), "department 5")
	assert.Contains(t, fe.Error(), "department 7")
}

func TestOverlappingLeaveError(t *testing.T) {
	existing := LeaveRequest{ID: "r1", Status: LeaveRequestStatusPending, StartDate: day("2024-04-01"), EndDate: day("2024-04-03")}
	err := error(&OverlappingLeaveError{Existing: existing})

	assert.True(t, errors.Is(err, ErrOverlappingLeave))
	assert.Equal(t, "leave request overlaps your pending request from 2024-04-01 to 2024-04-03", err.Error())
}

func TestSubmitLeaveRequest_Validate(t *testing.T) {
	req := SubmitLeaveRequest{UserID: "u1", LeaveType: "annual", StartDate: "2024-04-01", EndDate: "2024-04-03", Reason: "family trip"}
	require.NoError(t, req.Validate())
	start, end := req.Dates()
	assert.Equal(t, day("2024-04-01"), start)
	assert.Equal(t, day("2024-04-03"), end)

	bad := SubmitLeaveRequest{UserID: "u1", LeaveType: "sabbatical", StartDate: "2024-04-05", EndDate: "2024-04-01", Reason: "  "}
	err := bad.Validate()
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := verrs.ToMap()
	assert.Contains(t, fields, "leave_type")
	assert.Contains(t, fields, "end_date")
	assert.Contains(t, fields, "reason")
}
