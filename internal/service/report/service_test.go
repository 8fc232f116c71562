package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/workday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/sqlite"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/sqlite/sqlitetest"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var (
	adminActor   = scope.Actor{UserID: "a1", Role: user.RoleAdmin, DepartmentID: "1"}
	managerActor = scope.Actor{UserID: "m5", Role: user.RoleManager, DepartmentID: "5"}
	march        = report.ReportQuery{StartDate: "2024-03-01", EndDate: "2024-03-31"}
)

type failingRepository struct{}

func (failingRepository) ListAttendance(context.Context, time.Time, time.Time, scope.Filter) ([]attendance.Attendance, error) {
	return nil, errors.New("connection refused")
}

func (failingRepository) ListApprovedLeave(context.Context, time.Time, time.Time, scope.Filter) ([]leave.LeaveRequest, error) {
	return nil, errors.New("connection refused")
}

// seeded returns a report service over a database holding fiveTwoOne and
// one approved two day leave.
func seeded(t *testing.T, fileService file.FileService) *ReportServiceImpl {
	t.Helper()
	ctx := context.Background()

	db := sqlitetest.Open(t)
	sqlitetest.SeedUser(t, db, "m5", "Manager", "5", user.RoleManager)
	sqlitetest.SeedUser(t, db, "e1", "Employee e1", "5", user.RoleEmployee)
	sqlitetest.SeedUser(t, db, "e2", "Employee e2", "7", user.RoleEmployee)

	attendanceRepo := sqlite.NewAttendanceRepository(db)
	for _, rec := range fiveTwoOne() {
		_, err := attendanceRepo.Create(ctx, rec)
		require.NoError(t, err)
	}

	leaveRepo := sqlite.NewLeaveRequestRepository(db)
	_, err := leaveRepo.Create(ctx, leave.LeaveRequest{
		ID: "l1", UserID: "e1", LeaveType: leave.LeaveTypeAnnual,
		StartDate: date("2024-03-08"), EndDate: date("2024-03-09"),
		Reason: "trip", Status: leave.LeaveRequestStatusPending,
	})
	require.NoError(t, err)
	require.NoError(t, leaveRepo.Decide(ctx, leave.DecisionUpdate{
		ID: "l1", Status: leave.LeaveRequestStatusApproved, DecidedBy: "m5", DecidedAt: time.Now().UTC(),
	}))

	svc := NewReportService(sqlite.NewReportRepository(db), workday.Default(), fileService)
	return svc.(*ReportServiceImpl)
}

func TestStatistics(t *testing.T) {
	svc := seeded(t, nil)
	ctx := context.Background()

	s, err := svc.Statistics(ctx, adminActor, march)
	require.NoError(t, err)
	assert.False(t, s.Degraded)
	assert.Equal(t, 8, s.Total)
	assert.Equal(t, 63, s.PresentRate)
	assert.Equal(t, 25, s.LateRate)
	assert.Equal(t, 2, s.ApprovedLeaveDays)
	assert.Len(t, s.Monthly, 31)

	s, err = svc.Statistics(ctx, managerActor, march)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 3, s.Present)

	q := march
	q.GroupBy = report.GroupByDepartment
	s, err = svc.Statistics(ctx, adminActor, q)
	require.NoError(t, err)
	require.Len(t, s.Breakdown, 2)

	other := "7"
	q = march
	q.DepartmentID = &other
	s, err = svc.Statistics(ctx, managerActor, q)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Total)
}

func TestStatistics_InvalidQuery(t *testing.T) {
	svc := seeded(t, nil)

	_, err := svc.Statistics(context.Background(), adminActor, report.ReportQuery{StartDate: "2024-03-31", EndDate: "2024-03-01"})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	_, err = svc.Statistics(context.Background(), scope.Actor{UserID: "x", Role: "guest"}, march)
	assert.ErrorIs(t, err, scope.ErrUnknownRole)
}

func TestStatistics_DegradedOnStorageFailure(t *testing.T) {
	svc := NewReportService(failingRepository{}, workday.Default(), nil)

	s, err := svc.Statistics(context.Background(), adminActor, march)
	require.NoError(t, err)
	assert.True(t, s.Degraded)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0, s.AttendanceRate)
	assert.Len(t, s.Weekly, 7)

	blob, err := svc.Export(context.Background(), adminActor, report.ReportQuery{
		StartDate: "2024-03-01", EndDate: "2024-03-31", Format: report.FormatDelimitedText,
	})
	require.NoError(t, err)
	assert.Contains(t, string(blob.Data), "Data unavailable")
}

// summaryOf reads the label/value pairs of a report's statistics block.
func summaryOf(t *testing.T, format report.Format, data []byte) map[string]string {
	t.Helper()
	out := map[string]string{}

	switch format {
	case report.FormatDelimitedText:
		r := csv.NewReader(bytes.NewReader(data))
		r.FieldsPerRecord = -1
		rows, err := r.ReadAll()
		require.NoError(t, err)
		for _, row := range rows {
			if len(row) == 2 {
				out[row[0]] = row[1]
			}
		}
	case report.FormatSpreadsheet:
		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows(sheetSummary)
		require.NoError(t, err)
		for _, row := range rows {
			if len(row) == 2 {
				out[row[0]] = row[1]
			}
		}
	}
	return out
}

func TestExport_FormatsAgree(t *testing.T) {
	svc := seeded(t, nil)
	ctx := context.Background()

	want := map[string]string{
		"Total":         "8",
		"Present":       "5",
		"Late":          "2",
		"Absent":        "0",
		"Leave":         "1",
		"Average Hours": "8h 33m",
	}

	for _, format := range []report.Format{report.FormatDelimitedText, report.FormatSpreadsheet, report.FormatDocument} {
		t.Run(string(format), func(t *testing.T) {
			q := march
			q.Format = format
			blob, err := svc.Export(ctx, adminActor, q)
			require.NoError(t, err)
			assert.Equal(t, "attendance-report-2024-03-01-2024-03-31."+format.Extension(), blob.Filename)
			assert.Equal(t, format.ContentType(), blob.ContentType)
			assert.Empty(t, blob.URL)

			if format == report.FormatDocument {
				assert.True(t, bytes.HasPrefix(blob.Data, []byte("%PDF")))
				for label, value := range want {
					assert.Contains(t, string(blob.Data), "("+label+")")
					assert.Contains(t, string(blob.Data), "("+value+")")
				}
				return
			}

			got := summaryOf(t, format, blob.Data)
			for label, value := range want {
				assert.Equal(t, value, got[label], label)
			}
		})
	}
}

func TestRender_NonASCIIText(t *testing.T) {
	r := mustRange(t, "2024-03-01", "2024-03-31")
	rec := record("e9", "9", "2024-03-04", attendance.StatusPresent, "08:00", "17:00")
	rec.EmployeeName = "José Ñúñez"
	rec.DepartmentName = "Área Técnica"
	rows := []attendance.Attendance{rec}
	snap := Aggregate(rows, r, report.GroupByNone)
	rd := NewRenderer(time.UTC)

	blob, err := rd.Render(snap, rows, report.FormatDelimitedText, r)
	require.NoError(t, err)
	assert.Contains(t, string(blob.Data), "José Ñúñez")
	assert.Contains(t, string(blob.Data), "Área Técnica")

	blob, err = rd.Render(snap, rows, report.FormatSpreadsheet, r)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(blob.Data))
	require.NoError(t, err)
	defer f.Close()
	sheetRows, err := f.GetRows(sheetRecords)
	require.NoError(t, err)
	require.Len(t, sheetRows, 2)
	assert.Equal(t, "José Ñúñez", sheetRows[1][1])
	assert.Equal(t, "Área Técnica", sheetRows[1][3])

	// the PDF carries the same text in the core font encoding
	blob, err = rd.Render(snap, rows, report.FormatDocument, r)
	require.NoError(t, err)
	assert.Contains(t, string(blob.Data), "(Jos\xe9 \xd1\xfa\xf1ez)")
	assert.Contains(t, string(blob.Data), "(\xc1rea T\xe9cnica)")
	assert.NotContains(t, string(blob.Data), "José")
}

func TestExport_RecordsTable(t *testing.T) {
	svc := seeded(t, nil)

	q := march
	q.Format = report.FormatDelimitedText
	blob, err := svc.Export(context.Background(), managerActor, q)
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(blob.Data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)

	var records [][]string
	inTable := false
	for _, row := range rows {
		if len(row) == len(TableHeader) && row[0] == TableHeader[0] {
			inTable = true
			continue
		}
		if inTable && len(row) == len(TableHeader) {
			records = append(records, row)
		}
	}
	require.Len(t, records, 5)
	for _, row := range records {
		assert.Equal(t, "e1", row[2])
	}
	assert.Contains(t, records, []string{
		"2024-03-04", "Employee e1", "e1", "Department 5", "08:00", "17:00", "9h 0m", "Present", "-",
	})
	assert.Contains(t, records, []string{
		"2024-03-08", "Employee e1", "e1", "Department 5", "-", "-", "-", "On Leave", "-",
	})
}

func TestExport_Archived(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir(), "/api/v1/reports/archive")
	require.NoError(t, err)
	svc := seeded(t, file.NewFileService(local))
	svc.now = func() time.Time { return time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC) }

	q := march
	q.Format = report.FormatSpreadsheet
	blob, err := svc.Export(context.Background(), adminActor, q)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(blob.URL, "/api/v1/reports/archive/2024/04/01/a1/"), blob.URL)
	assert.True(t, strings.HasSuffix(blob.URL, "-attendance-report-2024-03-01-2024-03-31.xlsx"), blob.URL)

	key := strings.TrimPrefix(blob.URL, "/api/v1/reports/archive/")
	exists, err := local.Exists(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, blob.Filename, file.ReportFilename(key))
}

func TestExport_UnsupportedFormat(t *testing.T) {
	svc := seeded(t, nil)

	q := march
	q.Format = "html"
	_, err := svc.Export(context.Background(), adminActor, q)
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}
