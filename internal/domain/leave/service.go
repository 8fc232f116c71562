package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
)

type LeaveService interface {
	Submit(ctx context.Context, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	Decide(ctx context.Context, req DecideLeaveRequest) (LeaveRequestResponse, error)
	RemainingAllowance(ctx context.Context, userID string, year int) (int, error)

	GetLeaveRequest(ctx context.Context, actor scope.Actor, id string) (LeaveRequestResponse, error)
	ListLeaveRequests(ctx context.Context, actor scope.Actor, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
}
