package dashboard

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
)

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns the actor's scoped dashboard for a month (YYYY-MM, empty for current)
	GetDashboard(ctx context.Context, actor scope.Actor, month string) (*DashboardResponse, error)
}
