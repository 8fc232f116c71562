package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/query"
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row rowScanner) (attendance.Attendance, error) {
	var (
		a        attendance.Attendance
		workDate string
	)
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&workDate,
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
	if a.WorkDate, err = parseDate(workDate); err != nil {
		return attendance.Attendance{}, err
	}
	return a, nil
}

type attendanceRepositoryImpl struct {
	db *sql.DB
}

func NewAttendanceRepository(db *sql.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	now := time.Now().UTC()
	insertQuery := `
		INSERT INTO attendances (id, user_id, work_date, check_in, check_out, status, location, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, insertQuery,
		a.ID,
		a.UserID,
		formatDate(a.WorkDate),
		a.CheckIn,
		a.CheckOut,
		string(a.Status),
		a.Location,
		a.Notes,
		now,
		now,
	)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("insert attendance: %w", duplicateCheckIn(err))
	}

	return r.GetByID(ctx, a.ID)
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRowContext(ctx, attendanceSelect+" WHERE a.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("get attendance %s: %w", id, err)
	}
	return a, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRowContext(ctx,
		attendanceSelect+" WHERE a.user_id = ? AND a.work_date = ?",
		userID, formatDate(date),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attendance for %s on %s: %w", userID, formatDate(date), err)
	}
	return &a, nil
}

// SetCheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) SetCheckOut(ctx context.Context, id string, checkOut time.Time) error {
	q := GetQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx,
		`UPDATE attendances SET check_out = ?, updated_at = ? WHERE id = ? AND check_out IS NULL`,
		checkOut, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set check-out: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set check-out: %w", err)
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return attendance.ErrAlreadyCheckedOut
	}
	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter, sc scope.Filter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := query.NewWhere(query.Question).Scope(sc, "a.user_id", "u.department_id")
	if filter.Date != nil {
		where.Add("a.work_date = %s", *filter.Date)
	}
	if filter.StartDate != nil {
		where.Add("a.work_date >= %s", *filter.StartDate)
	}
	if filter.EndDate != nil {
		where.Add("a.work_date <= %s", *filter.EndDate)
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
	if err := q.QueryRowContext(ctx, countQuery, where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count attendances: %w", err)
	}

	orderBy := query.Order(filter.SortBy, filter.SortOrder, attendanceSortColumns, "a.work_date")
	listQuery := attendanceSelect + " WHERE " + where.SQL() +
		" ORDER BY " + orderBy + ", a.id LIMIT ? OFFSET ?"
	args := append(where.Args(), filter.Limit, utils.Offset(filter.Page, filter.Limit))

	rows, err := q.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
