package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

// QuotaService computes annual leave allowance from approved requests.
type QuotaService struct {
	leave.LeaveRequestRepository
	user.UserRepository
	annualQuota int
}

func NewQuotaService(leaveRequestRepository leave.LeaveRequestRepository, userRepository user.UserRepository, annualQuota int) *QuotaService {
	return &QuotaService{
		LeaveRequestRepository: leaveRequestRepository,
		UserRepository:         userRepository,
		annualQuota:            annualQuota,
	}
}

// Used sums the inclusive days of approved annual requests starting in year.
// A request crossing into the next year is charged entirely to its start year.
func (q *QuotaService) Used(ctx context.Context, userID string, year int) (int, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	approved, err := q.LeaveRequestRepository.ListApprovedStartingBetween(ctx, userID, leave.LeaveTypeAnnual, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to list approved annual leave: %w", err)
	}

	used := 0
	for _, r := range approved {
		used += r.DurationDays()
	}
	return used, nil
}

// Remaining returns quota minus used days. It goes negative when over-drawn.
func (q *QuotaService) Remaining(ctx context.Context, userID string, year int) (int, error) {
	if _, err := q.UserRepository.GetByID(ctx, userID); err != nil {
		return 0, err
	}

	used, err := q.Used(ctx, userID, year)
	if err != nil {
		return 0, err
	}
	return q.annualQuota - used, nil
}

// Quota returns the configured annual quota.
func (q *QuotaService) Quota() int {
	return q.annualQuota
}
