package file

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "http://reports.local/archive"

var (
	admin    = scope.Actor{UserID: "a1", Role: user.RoleAdmin, DepartmentID: "1"}
	manager5 = scope.Actor{UserID: "m5", Role: user.RoleManager, DepartmentID: "5"}
	manager7 = scope.Actor{UserID: "m7", Role: user.RoleManager, DepartmentID: "7"}
)

func newService(t *testing.T) FileService {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir(), baseURL)
	require.NoError(t, err)
	return NewFileService(local)
}

func keyOf(t *testing.T, url string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(url, baseURL+"/"), url)
	return strings.TrimPrefix(url, baseURL+"/")
}

func TestArchiveReport(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	at := time.Date(2024, 4, 30, 9, 0, 0, 0, time.UTC)
	url, err := svc.ArchiveReport(ctx, manager5, at, "attendance-report-2024-04-01-2024-04-30.csv", []byte("Total,8\n"))
	require.NoError(t, err)

	key := keyOf(t, url)
	assert.True(t, strings.HasPrefix(key, "2024/04/30/m5/"), key)
	assert.True(t, strings.HasSuffix(key, "-attendance-report-2024-04-01-2024-04-30.csv"), key)

	rc, err := svc.OpenReport(ctx, manager5, key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Total,8\n", string(data))
}

func TestArchiveReport_SameNameDoesNotCollide(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	at := time.Date(2024, 4, 30, 9, 0, 0, 0, time.UTC)

	first, err := svc.ArchiveReport(ctx, admin, at, "report.csv", []byte("admin"))
	require.NoError(t, err)
	second, err := svc.ArchiveReport(ctx, manager5, at, "report.csv", []byte("manager"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	rc, err := svc.OpenReport(ctx, admin, keyOf(t, first))
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "admin", string(data))
}

func TestOpenReport_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	at := time.Date(2024, 4, 30, 9, 0, 0, 0, time.UTC)

	adminURL, err := svc.ArchiveReport(ctx, admin, at, "report.csv", []byte("company"))
	require.NoError(t, err)
	managerURL, err := svc.ArchiveReport(ctx, manager5, at, "report.csv", []byte("dept 5"))
	require.NoError(t, err)

	_, err = svc.OpenReport(ctx, manager5, keyOf(t, adminURL))
	assert.ErrorIs(t, err, ErrReportNotFound)

	_, err = svc.OpenReport(ctx, manager7, keyOf(t, managerURL))
	assert.ErrorIs(t, err, ErrReportNotFound)

	rc, err := svc.OpenReport(ctx, admin, keyOf(t, managerURL))
	require.NoError(t, err)
	rc.Close()
}

func TestArchiveReport_Rejects(t *testing.T) {
	svc := newService(t)

	_, err := svc.ArchiveReport(context.Background(), admin, time.Now(), "report.exe", []byte("x"))
	assert.Error(t, err)

	for _, id := range []string{"", "..", "a/b", `a\b`} {
		_, err = svc.ArchiveReport(context.Background(), scope.Actor{UserID: id, Role: user.RoleAdmin}, time.Now(), "report.csv", []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidOwner, id)
	}
}

func TestOpenReport_NotFound(t *testing.T) {
	svc := newService(t)

	_, err := svc.OpenReport(context.Background(), admin, "2024/01/01/a1/missing.pdf")
	assert.ErrorIs(t, err, ErrReportNotFound)

	_, err = svc.OpenReport(context.Background(), admin, "2024/01/01/missing.pdf")
	assert.ErrorIs(t, err, ErrReportNotFound)

	_, err = svc.OpenReport(context.Background(), admin, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestReportFilename(t *testing.T) {
	assert.Equal(t, "report.csv", ReportFilename("2024/04/30/a1/0190a7c2-6f1e-7c3b-9d4e-2a1b3c4d5e6f-report.csv"))
	assert.Equal(t, "report.csv", ReportFilename("2024/04/30/a1/report.csv"))
	assert.Equal(t, "monthly-report.csv", ReportFilename("monthly-report.csv"))
}
