package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/google/uuid"
)

// Submit implements leave.LeaveService.
func (l *LeaveServiceImpl) Submit(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	start, end := req.Dates()

	owner, err := l.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var created leave.LeaveRequest
	err = l.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := l.db.LockUser(txCtx, owner.ID); err != nil {
			return err
		}

		existing, err := l.LeaveRequestRepository.FindOverlapping(txCtx, owner.ID, start, end)
		if err != nil {
			return fmt.Errorf("failed to check overlapping leave: %w", err)
		}
		if existing != nil {
			return &leave.OverlappingLeaveError{Existing: *existing}
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate leave request id: %w", err)
		}

		created, err = l.LeaveRequestRepository.Create(txCtx, leave.LeaveRequest{
			ID:        id.String(),
			UserID:    owner.ID,
			LeaveType: leave.LeaveType(req.LeaveType),
			StartDate: start,
			EndDate:   end,
			Reason:    req.Reason,
			Status:    leave.LeaveRequestStatusPending,
		})
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	created.EmployeeName = owner.FullName
	created.DepartmentID = owner.DepartmentID
	created.DepartmentName = owner.DepartmentName

	return leave.ToResponse(created), nil
}

// authorizeDecision checks the actor may decide request. Managers decide
// requests of their own department except their own; admins decide any.
func authorizeDecision(actor scope.Actor, request leave.LeaveRequest) error {
	switch actor.Role {
	case user.RoleAdmin:
		return nil
	case user.RoleManager:
		if request.DepartmentID != actor.DepartmentID {
			return &leave.ForbiddenDepartmentError{
				ManagerDepartmentID: actor.DepartmentID,
				OwnerDepartmentID:   request.DepartmentID,
			}
		}
		if request.UserID == actor.UserID {
			return leave.ErrSelfDecision
		}
		return nil
	case user.RoleEmployee:
		return leave.ErrDecisionNotAllowed
	default:
		return fmt.Errorf("%w: %q", scope.ErrUnknownRole, actor.Role)
	}
}

// Decide implements leave.LeaveService.
func (l *LeaveServiceImpl) Decide(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	status, _ := req.Decision.Status()

	var request leave.LeaveRequest
	err := l.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		request, err = l.LeaveRequestRepository.GetByID(txCtx, req.RequestID)
		if err != nil {
			return err
		}

		if err := authorizeDecision(req.Actor, request); err != nil {
			return err
		}

		if request.Status != leave.LeaveRequestStatusPending {
			return leave.ErrLeaveAlreadyDecided
		}

		update := leave.DecisionUpdate{
			ID:        request.ID,
			Status:    status,
			DecidedBy: req.Actor.UserID,
			DecidedAt: l.now().UTC().Truncate(time.Microsecond),
		}
		if status == leave.LeaveRequestStatusRejected {
			update.RejectionReason = req.Reason
		}

		if err := l.LeaveRequestRepository.Decide(txCtx, update); err != nil {
			return err
		}

		request.Status = update.Status
		request.ApprovedBy = &update.DecidedBy
		request.ApprovedAt = &update.DecidedAt
		request.RejectionReason = update.RejectionReason
		request.UpdatedAt = update.DecidedAt
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return leave.ToResponse(request), nil
}
