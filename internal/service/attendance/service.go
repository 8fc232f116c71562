package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/workday"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	db database.Transactor
	attendance.AttendanceRepository
	user.UserRepository
	policy workday.Policy
	now    func() time.Time
}

func NewAttendanceService(
	db database.Transactor,
	attendanceRepository attendance.AttendanceRepository,
	userRepository user.UserRepository,
	policy workday.Policy,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		db:                   db,
		AttendanceRepository: attendanceRepository,
		UserRepository:       userRepository,
		policy:               policy,
		now:                  time.Now,
	}
}

// normalize stores instants in UTC at the precision both backends keep.
func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// duplicateError describes the record that already occupies the day.
func (s *AttendanceServiceImpl) duplicateError(existing attendance.Attendance) error {
	dup := &attendance.DuplicateCheckInError{Existing: existing}
	if existing.CheckIn != nil {
		at := s.policy.In(*existing.CheckIn)
		dup.At = &at
	}
	return dup
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	ts = normalize(ts)

	owner, err := s.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	day := s.policy.CalendarDay(ts)
	status := attendance.StatusPresent
	if s.policy.IsLate(ts) {
		status = attendance.StatusLate
	}

	var created attendance.Attendance
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.db.LockUser(txCtx, req.UserID); err != nil {
			return err
		}

		existing, err := s.AttendanceRepository.GetByUserAndDate(txCtx, req.UserID, day)
		if err != nil {
			return fmt.Errorf("failed to check existing attendance: %w", err)
		}
		if existing != nil {
			return s.duplicateError(*existing)
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate attendance id: %w", err)
		}

		created, err = s.AttendanceRepository.Create(txCtx, attendance.Attendance{
			ID:       id.String(),
			UserID:   req.UserID,
			WorkDate: day,
			CheckIn:  &ts,
			Status:   status,
			Location: req.Location,
			Notes:    req.Notes,
		})
		return err
	})
	if err != nil {
		var dup *attendance.DuplicateCheckInError
		if errors.Is(err, attendance.ErrDuplicateCheckIn) && !errors.As(err, &dup) {
			// Lost the race on the unique index; report the winning record
			if existing, getErr := s.AttendanceRepository.GetByUserAndDate(ctx, req.UserID, day); getErr == nil && existing != nil {
				return attendance.AttendanceResponse{}, s.duplicateError(*existing)
			}
		}
		return attendance.AttendanceResponse{}, err
	}

	created.EmployeeName = owner.FullName
	created.DepartmentID = owner.DepartmentID
	created.DepartmentName = owner.DepartmentName

	return attendance.ToResponse(created, s.policy.Location), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	ts = normalize(ts)

	var record attendance.Attendance
	err := s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.db.LockUser(txCtx, req.UserID); err != nil {
			return err
		}

		var err error
		record, err = s.AttendanceRepository.GetByID(txCtx, req.RecordID)
		if err != nil {
			return err
		}

		if record.UserID != req.UserID {
			return attendance.ErrAttendanceNotFound
		}
		if record.CheckIn == nil {
			return attendance.ErrNotCheckedIn
		}
		if record.CheckOut != nil {
			return attendance.ErrAlreadyCheckedOut
		}
		if !ts.After(*record.CheckIn) {
			return attendance.ErrInvalidOrder
		}

		if err := s.AttendanceRepository.SetCheckOut(txCtx, record.ID, ts); err != nil {
			return err
		}
		record.CheckOut = &ts
		record.UpdatedAt = ts
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.ToResponse(record, s.policy.Location), nil
}

// RecordAbsence implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordAbsence(ctx context.Context, actor scope.Actor, req attendance.RecordAbsenceRequest) (attendance.AttendanceResponse, error) {
	if !user.HasPermission(actor.Role, user.PermissionAttendanceRecord) {
		return attendance.AttendanceResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	owner, err := s.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	filter, err := scope.For(actor)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !filter.Allows(scope.Subject{UserID: owner.ID, DepartmentID: owner.DepartmentID}) {
		return attendance.AttendanceResponse{}, fmt.Errorf("%w: user %s is outside your scope", user.ErrInsufficientPermissions, owner.ID)
	}

	day, _ := validator.IsValidDate(req.Date)

	var created attendance.Attendance
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.db.LockUser(txCtx, owner.ID); err != nil {
			return err
		}

		existing, err := s.AttendanceRepository.GetByUserAndDate(txCtx, owner.ID, day)
		if err != nil {
			return fmt.Errorf("failed to check existing attendance: %w", err)
		}
		if existing != nil {
			return s.duplicateError(*existing)
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate attendance id: %w", err)
		}

		created, err = s.AttendanceRepository.Create(txCtx, attendance.Attendance{
			ID:       id.String(),
			UserID:   owner.ID,
			WorkDate: day,
			Status:   attendance.Status(req.Status),
			Notes:    req.Notes,
		})
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	created.EmployeeName = owner.FullName
	created.DepartmentID = owner.DepartmentID
	created.DepartmentName = owner.DepartmentName

	return attendance.ToResponse(created, s.policy.Location), nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, actor scope.Actor, id string) (attendance.AttendanceResponse, error) {
	record, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	ok, err := scope.CanView(actor, record.Subject())
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !ok {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	return attendance.ToResponse(record, s.policy.Location), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, actor scope.Actor, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	sc, ok, err := scope.ForListing(actor, filter.UserID, filter.DepartmentID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	var (
		records []attendance.Attendance
		total   int64
	)
	if ok {
		records, total, err = s.AttendanceRepository.List(ctx, filter, sc)
		if err != nil {
			return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
		}
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, attendance.ToResponse(record, s.policy.Location))
	}

	totalPages, showing := utils.Paginate(filter.Page, filter.Limit, total)

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}
