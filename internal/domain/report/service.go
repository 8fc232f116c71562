package report

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
)

// ReportService defines the interface for statistics and report export
type ReportService interface {
	Statistics(ctx context.Context, actor scope.Actor, q ReportQuery) (StatisticsSnapshot, error)
	Export(ctx context.Context, actor scope.Actor, q ReportQuery) (Blob, error)
}
