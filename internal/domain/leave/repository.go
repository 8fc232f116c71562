package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// FindOverlapping returns the first non-rejected request of the user
	// intersecting [start, end], or nil.
	FindOverlapping(ctx context.Context, userID string, start, end time.Time) (*LeaveRequest, error)

	// Decide moves a pending request to a terminal status. Fails with
	// ErrLeaveAlreadyDecided when the request is no longer pending.
	Decide(ctx context.Context, req DecisionUpdate) error

	// ListApprovedStartingBetween lists approved requests of one type whose
	// start date falls within [from, to].
	ListApprovedStartingBetween(ctx context.Context, userID string, leaveType LeaveType, from, to time.Time) ([]LeaveRequest, error)

	List(ctx context.Context, filter LeaveRequestFilter, sc scope.Filter) ([]LeaveRequest, int64, error)
}

// DecisionUpdate is the single-assignment payload of a decision.
type DecisionUpdate struct {
	ID              string
	Status          LeaveRequestStatus
	DecidedBy       string
	DecidedAt       time.Time
	RejectionReason *string
}
