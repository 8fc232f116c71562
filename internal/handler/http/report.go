package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/file"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Statistics returns the aggregated snapshot for a period
	Statistics(w http.ResponseWriter, r *http.Request)

	// Export streams the period report as a file
	Export(w http.ResponseWriter, r *http.Request)

	// Archive serves a previously exported report
	Archive(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
	fileService   file.FileService // nil when archiving is disabled
}

func NewReportHandler(reportService report.ReportService, fileService file.FileService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
		fileService:   fileService,
	}
}

func parseReportQuery(r *http.Request) report.ReportQuery {
	q := r.URL.Query()
	return report.ReportQuery{
		StartDate:    q.Get("start_date"),
		EndDate:      q.Get("end_date"),
		UserID:       queryString(q, "user_id"),
		DepartmentID: queryString(q, "department_id"),
		GroupBy:      report.GroupBy(q.Get("group_by")),
		Format:       report.Format(q.Get("format")),
	}
}

// Statistics handles GET /reports/statistics
func (h *reportHandlerImpl) Statistics(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.Statistics(r.Context(), actor, parseReportQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export handles GET /reports/export
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	blob, err := h.reportService.Export(r.Context(), actor, parseReportQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", blob.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	if blob.URL != "" {
		w.Header().Set("X-Report-Archive-URL", blob.URL)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob.Data)
}

// Archive handles GET /reports/archive/*
func (h *reportHandlerImpl) Archive(w http.ResponseWriter, r *http.Request) {
	if h.fileService == nil {
		response.NotFound(w, "Report archive is disabled")
		return
	}
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	key := chi.URLParam(r, "*")
	rc, err := h.fileService.OpenReport(r.Context(), actor, key)
	if err != nil {
		if errors.Is(err, file.ErrReportNotFound) {
			response.NotFound(w, "Archived report not found")
			return
		}
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	name := file.ReportFilename(key)
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("failed to stream archived report", "key", key, "error", err)
	}
}
