package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/query"
)

type dashboardRepositoryImpl struct {
	db *sql.DB
}

func NewDashboardRepository(db *sql.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// CountPendingLeave implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountPendingLeave(ctx context.Context, sc scope.Filter) (int64, error) {
	q := GetQuerier(ctx, r.db)

	where := query.NewWhere(query.Question).
		Add("lr.status = %s", string(leave.LeaveRequestStatusPending)).
		Scope(sc, "lr.user_id", "u.department_id")

	var count int64
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM leave_requests lr
		JOIN users u ON u.id = lr.user_id
		WHERE `+where.SQL(), where.Args()...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending leave: %w", err)
	}
	return count, nil
}
