package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/workday"
)

type LeaveServiceImpl struct {
	db database.Transactor
	leave.LeaveRequestRepository
	user.UserRepository
	quotaService *QuotaService
	now          func() time.Time
}

func NewLeaveService(
	db database.Transactor,
	leaveRequestRepo leave.LeaveRequestRepository,
	userRepo user.UserRepository,
	policy workday.Policy,
) leave.LeaveService {
	return &LeaveServiceImpl{
		db:                     db,
		LeaveRequestRepository: leaveRequestRepo,
		UserRepository:         userRepo,
		quotaService:           NewQuotaService(leaveRequestRepo, userRepo, policy.AnnualLeaveQuota),
		now:                    time.Now,
	}
}

// GetLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, actor scope.Actor, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	ok, err := scope.CanView(actor, request.Subject())
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !ok {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}

	return leave.ToResponse(request), nil
}

// ListLeaveRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, actor scope.Actor, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	sc, ok, err := scope.ForListing(actor, filter.UserID, filter.DepartmentID)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	var (
		requests []leave.LeaveRequest
		total    int64
	)
	if ok {
		requests, total, err = l.LeaveRequestRepository.List(ctx, filter, sc)
		if err != nil {
			return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
		}
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.ToResponse(r))
	}

	totalPages, showing := utils.Paginate(filter.Page, filter.Limit, total)

	return leave.ListLeaveRequestResponse{
		TotalCount:    total,
		Page:          filter.Page,
		Limit:         filter.Limit,
		TotalPages:    totalPages,
		Showing:       showing,
		LeaveRequests: responses,
	}, nil
}

// RemainingAllowance implements leave.LeaveService.
func (l *LeaveServiceImpl) RemainingAllowance(ctx context.Context, userID string, year int) (int, error) {
	return l.quotaService.Remaining(ctx, userID, year)
}
