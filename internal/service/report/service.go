package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/workday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/file"
	"golang.org/x/sync/errgroup"
)

type ReportServiceImpl struct {
	reportRepo  report.ReportRepository
	renderer    *Renderer
	fileService file.FileService
	now         func() time.Time
}

// NewReportService builds the service. fileService may be nil when no archive is configured.
func NewReportService(reportRepo report.ReportRepository, policy workday.Policy, fileService file.FileService) report.ReportService {
	return &ReportServiceImpl{
		reportRepo:  reportRepo,
		renderer:    NewRenderer(policy.Location),
		fileService: fileService,
		now:         time.Now,
	}
}

// dataset is everything a report is computed from.
type dataset struct {
	window  []attendance.Attendance
	leave   []leave.LeaveRequest
	query   report.DateRange
	visible bool
}

// load reads the series window and approved leave for q within the actor's scope.
func (s *ReportServiceImpl) load(ctx context.Context, actor scope.Actor, q report.ReportQuery) (dataset, error) {
	r, err := q.Range()
	if err != nil {
		return dataset{}, err
	}
	ds := dataset{query: r}

	sc, ok, err := scope.ForListing(actor, q.UserID, q.DepartmentID)
	if err != nil {
		return dataset{}, err
	}
	if !ok {
		return ds, nil
	}
	ds.visible = true

	window := SeriesWindow(r)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := s.reportRepo.ListAttendance(gCtx, window.Start, window.End, sc)
		if err != nil {
			return fmt.Errorf("failed to load attendance: %w", err)
		}
		ds.window = records
		return nil
	})
	g.Go(func() error {
		requests, err := s.reportRepo.ListApprovedLeave(gCtx, r.Start, r.End, sc)
		if err != nil {
			return fmt.Errorf("failed to load leave: %w", err)
		}
		ds.leave = requests
		return nil
	})
	if err := g.Wait(); err != nil {
		return dataset{}, err
	}

	return ds, nil
}

// snapshot aggregates ds. A storage failure yields a zeroed snapshot flagged Degraded.
func (s *ReportServiceImpl) snapshot(ds dataset, groupBy report.GroupBy, loadErr error) report.StatisticsSnapshot {
	if loadErr != nil {
		zero := Aggregate(nil, ds.query, report.GroupByNone)
		zero.Degraded = true
		return zero
	}
	snap := Aggregate(ds.window, ds.query, groupBy)
	snap.ApprovedLeaveDays = CountLeaveDays(ds.leave, ds.query)
	return snap
}

// Statistics implements report.ReportService.
func (s *ReportServiceImpl) Statistics(ctx context.Context, actor scope.Actor, q report.ReportQuery) (report.StatisticsSnapshot, error) {
	if err := q.Validate(false); err != nil {
		return report.StatisticsSnapshot{}, err
	}
	if _, err := scope.For(actor); err != nil {
		return report.StatisticsSnapshot{}, err
	}

	ds, err := s.load(ctx, actor, q)
	if err != nil {
		slog.Error("statistics degraded: ledger read failed",
			"user_id", actor.UserID,
			"start_date", q.StartDate,
			"end_date", q.EndDate,
			"error", err,
		)
		ds.query, _ = q.Range()
	}

	return s.snapshot(ds, q.GroupBy, err), nil
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, actor scope.Actor, q report.ReportQuery) (report.Blob, error) {
	if err := q.Validate(true); err != nil {
		return report.Blob{}, err
	}
	if _, err := scope.For(actor); err != nil {
		return report.Blob{}, err
	}

	ds, err := s.load(ctx, actor, q)
	if err != nil {
		slog.Error("export degraded: ledger read failed",
			"user_id", actor.UserID,
			"format", q.Format,
			"error", err,
		)
		ds = dataset{}
		ds.query, _ = q.Range()
	}
	snap := s.snapshot(ds, q.GroupBy, err)

	rows := make([]attendance.Attendance, 0, len(ds.window))
	for _, rec := range ds.window {
		if ds.query.Contains(rec.WorkDate) {
			rows = append(rows, rec)
		}
	}

	blob, err := s.renderer.Render(snap, rows, q.Format, ds.query)
	if err != nil {
		return report.Blob{}, err
	}

	if s.fileService != nil {
		url, err := s.fileService.ArchiveReport(ctx, actor, s.now(), blob.Filename, blob.Data)
		if err != nil {
			slog.Warn("report archive failed", "filename", blob.Filename, "error", err)
		} else {
			blob.URL = url
		}
	}

	return blob, nil
}
