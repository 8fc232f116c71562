package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/query"
)

const leaveRequestSelect = `
	SELECT lr.id, lr.user_id, lr.leave_type, lr.start_date, lr.end_date, lr.reason,
		lr.status, lr.approved_by, lr.approved_at, lr.rejection_reason,
		lr.created_at, lr.updated_at,
		u.full_name, u.department_id, d.name
	FROM leave_requests lr
	JOIN users u ON u.id = lr.user_id
	JOIN departments d ON d.id = u.department_id
`

var leaveRequestSortColumns = map[string]string{
	"start_date": "lr.start_date",
	"created_at": "lr.created_at",
	"status":     "lr.status",
}

func scanLeaveRequest(row rowScanner) (leave.LeaveRequest, error) {
	var (
		lr         leave.LeaveRequest
		start, end string
	)
	err := row.Scan(
		&lr.ID,
		&lr.UserID,
		&lr.LeaveType,
		&start,
		&end,
		&lr.Reason,
		&lr.Status,
		&lr.ApprovedBy,
		&lr.ApprovedAt,
		&lr.RejectionReason,
		&lr.CreatedAt,
		&lr.UpdatedAt,
		&lr.EmployeeName,
		&lr.DepartmentID,
		&lr.DepartmentName,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if lr.StartDate, err = parseDate(start); err != nil {
		return leave.LeaveRequest{}, err
	}
	if lr.EndDate, err = parseDate(end); err != nil {
		return leave.LeaveRequest{}, err
	}
	return lr, nil
}

func collectLeaveRequests(rows *sql.Rows) ([]leave.LeaveRequest, error) {
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

type leaveRequestRepositoryImpl struct {
	db *sql.DB
}

func NewLeaveRequestRepository(db *sql.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	now := time.Now().UTC()
	insertQuery := `
		INSERT INTO leave_requests (id, user_id, leave_type, start_date, end_date, reason, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, insertQuery,
		request.ID,
		request.UserID,
		string(request.LeaveType),
		formatDate(request.StartDate),
		formatDate(request.EndDate),
		request.Reason,
		string(request.Status),
		now,
		now,
	)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("insert leave request: %w", err)
	}

	return r.GetByID(ctx, request.ID)
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	lr, err := scanLeaveRequest(q.QueryRowContext(ctx, leaveRequestSelect+" WHERE lr.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("get leave request %s: %w", id, err)
	}
	return lr, nil
}

// FindOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) FindOverlapping(ctx context.Context, userID string, start, end time.Time) (*leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	overlapQuery := leaveRequestSelect + `
		WHERE lr.user_id = ?
		  AND lr.status <> 'rejected'
		  AND lr.start_date <= ?
		  AND lr.end_date >= ?
		ORDER BY lr.start_date
		LIMIT 1
	`
	lr, err := scanLeaveRequest(q.QueryRowContext(ctx, overlapQuery, userID, formatDate(end), formatDate(start)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find overlapping leave: %w", err)
	}
	return &lr, nil
}

// Decide implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Decide(ctx context.Context, req leave.DecisionUpdate) error {
	q := GetQuerier(ctx, r.db)

	updateQuery := `
		UPDATE leave_requests
		SET status = ?, approved_by = ?, approved_at = ?, rejection_reason = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'
	`
	res, err := q.ExecContext(ctx, updateQuery,
		string(req.Status),
		req.DecidedBy,
		req.DecidedAt,
		req.RejectionReason,
		time.Now().UTC(),
		req.ID,
	)
	if err != nil {
		return fmt.Errorf("decide leave request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decide leave request: %w", err)
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, req.ID); err != nil {
			return err
		}
		return leave.ErrLeaveAlreadyDecided
	}
	return nil
}

// ListApprovedStartingBetween implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApprovedStartingBetween(ctx context.Context, userID string, leaveType leave.LeaveType, from, to time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	listQuery := leaveRequestSelect + `
		WHERE lr.user_id = ?
		  AND lr.leave_type = ?
		  AND lr.status = 'approved'
		  AND lr.start_date BETWEEN ? AND ?
		ORDER BY lr.start_date
	`
	rows, err := q.QueryContext(ctx, listQuery, userID, string(leaveType), formatDate(from), formatDate(to))
	if err != nil {
		return nil, fmt.Errorf("list approved leave: %w", err)
	}
	return collectLeaveRequests(rows)
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter, sc scope.Filter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := query.NewWhere(query.Question).Scope(sc, "lr.user_id", "u.department_id")
	if filter.LeaveType != nil {
		where.Add("lr.leave_type = %s", *filter.LeaveType)
	}
	if filter.Status != nil {
		where.Add("lr.status = %s", *filter.Status)
	}
	if filter.StartDate != nil {
		where.Add("lr.end_date >= %s", *filter.StartDate)
	}
	if filter.EndDate != nil {
		where.Add("lr.start_date <= %s", *filter.EndDate)
	}

	countQuery := `
		SELECT COUNT(*)
		FROM leave_requests lr
		JOIN users u ON u.id = lr.user_id
		WHERE ` + where.SQL()
	var total int64
	if err := q.QueryRowContext(ctx, countQuery, where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leave requests: %w", err)
	}

	orderBy := query.Order(filter.SortBy, filter.SortOrder, leaveRequestSortColumns, "lr.created_at")
	listQuery := leaveRequestSelect + " WHERE " + where.SQL() +
		" ORDER BY " + orderBy + ", lr.id LIMIT ? OFFSET ?"
	args := append(where.Args(), filter.Limit, utils.Offset(filter.Page, filter.Limit))

	rows, err := q.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leave requests: %w", err)
	}
	requests, err := collectLeaveRequests(rows)
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}
