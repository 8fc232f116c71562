package report

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type ReportQuery struct {
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	UserID       *string `json:"user_id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	GroupBy      GroupBy `json:"group_by,omitempty"`
	Format       Format  `json:"format,omitempty"`
}

// Validate checks the query. requireFormat is set for exports.
func (q *ReportQuery) Validate(requireFormat bool) error {
	var errs validator.ValidationErrors

	_, _, dateErrs := validator.DateRange(q.StartDate, q.EndDate, "start_date", "end_date")
	errs = append(errs, dateErrs...)

	if !q.GroupBy.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "group_by",
			Message: ErrInvalidGroupBy.Error(),
		})
	}

	if requireFormat && !q.Format.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: ErrUnsupportedFormat.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Range returns the parsed range. Call after Validate.
func (q *ReportQuery) Range() (DateRange, error) {
	return ParseDateRange(q.StartDate, q.EndDate)
}
