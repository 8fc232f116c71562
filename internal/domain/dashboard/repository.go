package dashboard

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
)

// DashboardRepository defines the interface for dashboard data access
type DashboardRepository interface {
	// CountPendingLeave returns the number of pending requests visible through sc
	CountPendingLeave(ctx context.Context, sc scope.Filter) (int64, error)
}
