package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/query"
	"github.com/jackc/pgx/v5"
)

const attendanceSelect = `
	SELECT a.id, a.user_id, a.work_date, a.check_in, a.check_out, a.status,
		a.location, a.notes, a.created_at, a.updated_at,
		u.full_name, u.department_id, d.name
	FROM attendances a
	JOIN users u ON u.id = a.user_id
	JOIN departments d ON d.id = u.department_id
`

var attendanceSortColumns = map[string]string{
	"date":          "a.work_date",
	"employee_name": "u.full_name",
	"check_in":      "a.check_in",
	"check_out":     "a.check_out",
	"status":        "a.status",
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.WorkDate,
		&a.CheckIn,
		&a.CheckOut,
		&a.Status,
		&a.Location,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.EmployeeName,
		&a.DepartmentID,
		&a.DepartmentName,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	a.CheckIn, a.CheckOut = utc(a.CheckIn), utc(a.CheckOut)
	a.CreatedAt, a.UpdatedAt = a.CreatedAt.UTC(), a.UpdatedAt.UTC()
	return a, nil
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	insertQuery := `
		INSERT INTO attendances (id, user_id, work_date, check_in, check_out, status, location, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := q.Exec(ctx, insertQuery,
		a.ID,
		a.UserID,
		a.WorkDate,
		a.CheckIn,
		a.CheckOut,
		string(a.Status),
		a.Location,
		a.Notes,
	)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("insert attendance: %w", duplicateCheckIn(err))
	}

	return r.GetByID(ctx, a.ID)
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+" WHERE a.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("get attendance %s: %w", id, err)
	}
	return a, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRow(ctx,
		attendanceSelect+" WHERE a.user_id = $1 AND a.work_date = $2",
		userID, date,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attendance for %s on %s: %w", userID, date.Format(time.DateOnly), err)
	}
	return &a, nil
}

// SetCheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepository) SetCheckOut(ctx context.Context, id string, checkOut time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE attendances SET check_out = $1, updated_at = NOW() WHERE id = $2 AND check_out IS NULL`,
		checkOut, id,
	)
	if err != nil {
		return fmt.Errorf("set check-out: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return attendance.ErrAlreadyCheckedOut
	}
	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter, sc scope.Filter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := query.NewWhere(query.Dollar).Scope(sc, "a.user_id", "u.department_id")
	dates := []struct {
		value *string
		cond  string
	}{
		{filter.Date, "a.work_date = %s"},
		{filter.StartDate, "a.work_date >= %s"},
		{filter.EndDate, "a.work_date <= %s"},
	}
	for _, d := range dates {
		if d.value == nil {
			continue
		}
		t, err := parseFilterDate(*d.value)
		if err != nil {
			return nil, 0, err
		}
		where.Add(d.cond, t)
	}
	if filter.Status != nil {
		where.Add("a.status = %s", *filter.Status)
	}

	countQuery := `
		SELECT COUNT(*)
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		WHERE ` + where.SQL()
	var total int64
	if err := q.QueryRow(ctx, countQuery, where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count attendances: %w", err)
	}

	orderBy := query.Order(filter.SortBy, filter.SortOrder, attendanceSortColumns, "a.work_date")
	listQuery := fmt.Sprintf("%s WHERE %s ORDER BY %s, a.id LIMIT %s OFFSET %s",
		attendanceSelect, where.SQL(), orderBy, where.Next(1), where.Next(2))
	args := append(where.Args(), filter.Limit, utils.Offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list attendances: %w", err)
	}
	records, err := collectAttendances(rows)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
