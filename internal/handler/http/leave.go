package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/workday"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Allowance(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
	policy       workday.Policy
}

func NewLeaveHandler(leaveService leave.LeaveService, policy workday.Policy) LeaveHandler {
	return &leaveHandlerImpl{
		leaveService: leaveService,
		policy:       policy,
	}
}

// Submit handles POST /leave/requests
func (h *leaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req leave.SubmitLeaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserID = actor.UserID

	result, err := h.leaveService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", result)
}

// Approve handles POST /leave/requests/{id}/approve
func (h *leaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.DecisionApprove, "Leave request approved")
}

// Reject handles POST /leave/requests/{id}/reject
func (h *leaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.DecisionReject, "Leave request rejected")
}

func (h *leaveHandlerImpl) decide(w http.ResponseWriter, r *http.Request, decision leave.Decision, message string) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req leave.DecideLeaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.RequestID = chi.URLParam(r, "id")
	req.Actor = actor
	req.Decision = decision

	result, err := h.leaveService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}

// List handles GET /leave/requests
func (h *leaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := leave.LeaveRequestFilter{
		UserID:       queryString(q, "user_id"),
		DepartmentID: queryString(q, "department_id"),
		LeaveType:    queryString(q, "leave_type"),
		Status:       queryString(q, "status"),
		StartDate:    queryString(q, "start_date"),
		EndDate:      queryString(q, "end_date"),
		Page:         queryInt(q, "page", 1),
		Limit:        queryInt(q, "limit", 20),
		SortBy:       q.Get("sort_by"),
		SortOrder:    q.Get("sort_order"),
	}

	result, err := h.leaveService.ListLeaveRequests(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get handles GET /leave/requests/{id}
func (h *leaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	result, err := h.leaveService.GetLeaveRequest(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Allowance handles GET /leave/allowance?year=
func (h *leaveHandlerImpl) Allowance(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	year := queryInt(r.URL.Query(), "year", h.policy.In(time.Now()).Year())

	remaining, err := h.leaveService.RemainingAllowance(r.Context(), actor.UserID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.AllowanceResponse{
		UserID:    actor.UserID,
		Year:      year,
		Quota:     h.policy.AnnualLeaveQuota,
		Remaining: remaining,
	})
}
