package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/workday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/sqlite"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/sqlite/sqlitetest"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/hris-attendance-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/hris-attendance-go/internal/service/dashboard"
	fileService "github.com/cmlabs-hris/hris-attendance-go/internal/service/file"
	leaveService "github.com/cmlabs-hris/hris-attendance-go/internal/service/leave"
	reportService "github.com/cmlabs-hris/hris-attendance-go/internal/service/report"
	userService "github.com/cmlabs-hris/hris-attendance-go/internal/service/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type testServer struct {
	*httptest.Server
	tokens map[string]string
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := sqlitetest.Open(t)
	users := []struct {
		id, name, dept string
		role           user.Role
	}{
		{"a1", "Admin", "1", user.RoleAdmin},
		{"m5", "Manager", "5", user.RoleManager},
		{"e5", "Ana", "5", user.RoleEmployee},
		{"e7", "Dewi", "7", user.RoleEmployee},
	}

	policy := workday.Default()
	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")
	tx := sqlite.NewTransactor(db)
	userRepo := sqlite.NewUserRepository(db)
	reportRepo := sqlite.NewReportRepository(db)

	local, err := storage.NewLocalStorage(t.TempDir(), "/api/v1/reports/archive")
	require.NoError(t, err)
	files := fileService.NewFileService(local)

	leaves := leaveService.NewLeaveService(tx, sqlite.NewLeaveRequestRepository(db), userRepo, policy)
	handlers := Handlers{
		Attendance: NewAttendanceHandler(attendanceService.NewAttendanceService(tx, sqlite.NewAttendanceRepository(db), userRepo, policy), policy.Location),
		Leave:      NewLeaveHandler(leaves, policy),
		Report:     NewReportHandler(reportService.NewReportService(reportRepo, policy, files), files),
		Dashboard:  NewDashboardHandler(dashboardService.NewDashboardService(sqlite.NewDashboardRepository(db), reportRepo, leaves, policy)),
		User:       NewUserHandler(userService.NewUserService(tx, userRepo), authService.NewAuthService(userRepo, jwtService)),
	}

	router := NewRouter(RouterConfig{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}, jwtService, handlers)
	srv := &testServer{Server: httptest.NewServer(router), tokens: map[string]string{}}
	t.Cleanup(srv.Close)

	for _, u := range users {
		sqlitetest.SeedUser(t, db, u.id, u.name, u.dept, u.role)
		token, _, err := jwtService.GenerateAccessToken(scope.Actor{UserID: u.id, Role: u.role, DepartmentID: u.dept})
		require.NoError(t, err)
		srv.tokens[u.id] = token
	}
	return srv
}

func (s *testServer) do(t *testing.T, as, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != "" {
		req.Header.Set("Authorization", "Bearer "+s.tokens[as])
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t)
	resp := srv.do(t, "", http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_RequiresToken(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, "", http.MethodGet, "/api/v1/attendance", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/attendance", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// a token signed with another key is rejected
	other := jwt.NewJWTService("another-secret", "1h")
	token, _, err := other.GenerateAccessToken(scope.Actor{UserID: "a1", Role: user.RoleAdmin})
	require.NoError(t, err)
	req, err = http.NewRequest(http.MethodGet, srv.URL+"/api/v1/attendance", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_CheckInDuplicate(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, "e5", http.MethodPost, "/api/v1/attendance/check-in", map[string]string{"location": "HQ"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := decode(t, resp)
	var created struct {
		ID       string  `json:"id"`
		Location *string `json:"location"`
	}
	require.NoError(t, json.Unmarshal(first.Data, &created))
	require.NotNil(t, created.Location)
	assert.Equal(t, "HQ", *created.Location)

	resp = srv.do(t, "e5", http.MethodPost, "/api/v1/attendance/check-in", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	env := decode(t, resp)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DUPLICATE_CHECK_IN", env.Error.Code)
	assert.True(t, strings.HasPrefix(env.Error.Message, "you already checked in today at "))

	var existing struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &existing))
	assert.Equal(t, created.ID, existing.ID)

	// the record is visible to the owner and not to another employee
	resp = srv.do(t, "e5", http.MethodGet, "/api/v1/attendance/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = srv.do(t, "e7", http.MethodGet, "/api/v1/attendance/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = srv.do(t, "e7", http.MethodPost, "/api/v1/attendance/"+created.ID+"/check-out", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_UnknownFieldsRejected(t *testing.T) {
	srv := newTestServer(t)
	resp := srv.do(t, "e5", http.MethodPost, "/api/v1/attendance/check-in", map[string]string{"timestamp": "2024-03-04T08:00:00Z"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_PermissionsByRole(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		as     string
		method string
		path   string
		want   int
	}{
		{"e5", http.MethodPost, "/api/v1/attendance/absences", http.StatusForbidden},
		{"e5", http.MethodPost, "/api/v1/leave/requests/x/approve", http.StatusForbidden},
		{"e5", http.MethodGet, "/api/v1/reports/statistics?start_date=2024-03-01&end_date=2024-03-31", http.StatusForbidden},
		{"e5", http.MethodPost, "/api/v1/users/", http.StatusForbidden},
		{"m5", http.MethodPost, "/api/v1/users/", http.StatusForbidden},
		{"m5", http.MethodGet, "/api/v1/reports/statistics?start_date=2024-03-01&end_date=2024-03-31", http.StatusOK},
		{"m5", http.MethodPost, "/api/v1/leave/requests/missing/approve", http.StatusNotFound},
		{"a1", http.MethodGet, "/api/v1/users/e7", http.StatusOK},
		{"a1", http.MethodGet, "/api/v1/users/ghost", http.StatusNotFound},
	}
	for _, c := range cases {
		resp := srv.do(t, c.as, c.method, c.path, nil)
		assert.Equal(t, c.want, resp.StatusCode, "%s %s as %s", c.method, c.path, c.as)
	}
}

func TestRouter_LeaveFlow(t *testing.T) {
	srv := newTestServer(t)

	submit := map[string]string{
		"leave_type": "annual", "start_date": "2024-04-01", "end_date": "2024-04-03", "reason": "family",
	}
	resp := srv.do(t, "e7", http.MethodPost, "/api/v1/leave/requests", submit)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, resp).Data, &created))

	submit["start_date"], submit["end_date"] = "2024-04-03", "2024-04-05"
	resp = srv.do(t, "e7", http.MethodPost, "/api/v1/leave/requests", submit)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "OVERLAPPING_LEAVE", decode(t, resp).Error.Code)

	// manager of another department
	resp = srv.do(t, "m5", http.MethodPost, "/api/v1/leave/requests/"+created.ID+"/approve", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	env := decode(t, resp)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
	assert.Contains(t, env.Error.Message, "department 7")

	resp = srv.do(t, "a1", http.MethodPost, "/api/v1/leave/requests/"+created.ID+"/reject", map[string]string{"reason": "busy"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = srv.do(t, "a1", http.MethodPost, "/api/v1/leave/requests/"+created.ID+"/approve", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "LEAVE_ALREADY_DECIDED", decode(t, resp).Error.Code)

	resp = srv.do(t, "e7", http.MethodGet, "/api/v1/leave/allowance?year=2024", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var allowance struct {
		Remaining int `json:"remaining"`
		Quota     int `json:"quota"`
	}
	require.NoError(t, json.Unmarshal(decode(t, resp).Data, &allowance))
	assert.Equal(t, 12, allowance.Quota)
	assert.Equal(t, 12, allowance.Remaining)
}

func TestRouter_ValidationError(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, "e5", http.MethodPost, "/api/v1/leave/requests", map[string]string{
		"leave_type": "holiday", "start_date": "2024-04-03", "end_date": "2024-04-01",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	env := decode(t, resp)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "leave_type")
	assert.Contains(t, env.Error.Details, "reason")

	resp = srv.do(t, "e5", http.MethodGet, "/api/v1/dashboard?month=2024-13", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRouter_ExportAndArchive(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, "e5", http.MethodPost, "/api/v1/attendance/check-in", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = srv.do(t, "m5", http.MethodGet, "/api/v1/reports/export?start_date=2024-03-01&end_date=2024-03-31&format=delimited-text", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="attendance-report-2024-03-01-2024-03-31.csv"`, resp.Header.Get("Content-Disposition"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, resp.Header.Get("Content-Length"), strconv.Itoa(len(body)))
	assert.Contains(t, string(body), "Attendance Report")

	archiveURL := resp.Header.Get("X-Report-Archive-URL")
	require.True(t, strings.HasPrefix(archiveURL, "/api/v1/reports/archive/"), archiveURL)

	resp = srv.do(t, "m5", http.MethodGet, archiveURL, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="attendance-report-2024-03-01-2024-03-31.csv"`, resp.Header.Get("Content-Disposition"))
	archived, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, body, archived)

	// admins can read any archive
	resp = srv.do(t, "a1", http.MethodGet, archiveURL, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = srv.do(t, "m5", http.MethodGet, "/api/v1/reports/archive/2000/01/01/m5/missing.csv", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = srv.do(t, "m5", http.MethodGet, "/api/v1/reports/export?start_date=2024-03-01&end_date=2024-03-31&format=html", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRouter_ArchiveIsPrivateToExporter(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, "e7", http.MethodPost, "/api/v1/attendance/check-in", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	today := time.Now().In(workday.Default().Location).Format("2006-01-02")
	exportPath := "/api/v1/reports/export?start_date=" + today + "&end_date=" + today + "&format=delimited-text"

	resp = srv.do(t, "a1", http.MethodGet, exportPath, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "Dewi")
	adminURL := resp.Header.Get("X-Report-Archive-URL")
	require.NotEmpty(t, adminURL)

	resp = srv.do(t, "m5", http.MethodGet, adminURL, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	denied, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(denied), "Dewi")

	// a same-day export of the same range gets its own archive entry
	resp = srv.do(t, "m5", http.MethodGet, exportPath, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	managerURL := resp.Header.Get("X-Report-Archive-URL")
	assert.NotEqual(t, adminURL, managerURL)

	resp = srv.do(t, "e5", http.MethodGet, managerURL, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = srv.do(t, "a1", http.MethodGet, adminURL, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	archived, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, body, archived)
}

func TestRouter_UsersAndTokens(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, "a1", http.MethodPost, "/api/v1/users/", map[string]string{
		"full_name": "Eko", "department_id": "9", "department_name": "Finance", "role": "manager",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, resp).Data, &created))

	resp = srv.do(t, "a1", http.MethodPost, "/api/v1/users/"+created.ID+"/token", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var issued struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(decode(t, resp).Data, &issued))
	assert.Equal(t, "Bearer", issued.TokenType)

	srv.tokens[created.ID] = issued.AccessToken
	resp = srv.do(t, created.ID, http.MethodGet, "/api/v1/users/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		FullName       string `json:"full_name"`
		DepartmentName string `json:"department_name"`
		Role           string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(decode(t, resp).Data, &me))
	assert.Equal(t, "Eko", me.FullName)
	assert.Equal(t, "Finance", me.DepartmentName)
	assert.Equal(t, "manager", me.Role)
}
